// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import "github.com/gogpu/spvlegalize/spirv"

// EliminateDead nullifies every instruction whose result is no longer
// referenced, starting from seeds and following the ids each nullified
// instruction used. An id counts as used while any instruction names it as
// its result type or as an id operand; this is re-checked against the current
// module each time a candidate is examined.
//
// Nullified instructions are replaced by OpNop in place. It returns the number
// of instructions nullified, or a *CorruptionError if an unused candidate has
// no defining instruction.
func EliminateDead(m *spirv.Module, seeds []uint32, opts Options) (int, error) {
	log := opts.logger()

	// Slot index per result id, and which slots are already OpNop.
	defs := m.Definitions()
	nullified := make([]bool, len(m.Instructions))

	work := newWorklist(seeds)
	count := 0
	for {
		id, ok := work.pop()
		if !ok {
			return count, nil
		}
		if m.IsReferenced(id) {
			continue
		}

		slot, ok := defs[id]
		if !ok {
			return count, &CorruptionError{ID: id}
		}
		if nullified[slot] {
			continue
		}

		inst := &m.Instructions[slot]
		for _, operand := range inst.IDs() {
			work.push(operand)
		}
		if inst.ResultType != 0 {
			work.push(inst.ResultType)
		}

		log.Debug("replacing unused instruction with OpNop", "inst", *inst)
		*inst = spirv.Nop()
		nullified[slot] = true
		count++
	}
}

// worklist is a FIFO queue of ids that holds each id at most once.
type worklist struct {
	queue  []uint32
	queued map[uint32]struct{}
}

func newWorklist(seeds []uint32) *worklist {
	w := &worklist{queued: make(map[uint32]struct{}, len(seeds))}
	for _, id := range seeds {
		w.push(id)
	}
	return w
}

func (w *worklist) push(id uint32) {
	if _, ok := w.queued[id]; ok {
		return
	}
	w.queued[id] = struct{}{}
	w.queue = append(w.queue, id)
}

func (w *worklist) pop() (uint32, bool) {
	if len(w.queue) == 0 {
		return 0, false
	}
	id := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.queued, id)
	return id, true
}
