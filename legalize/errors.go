// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package legalize

import "fmt"

// CorruptionError reports an id that dead-instruction elimination had to
// examine but that no instruction defines. It means the input already held
// a dangling reference.
type CorruptionError struct {
	// ID is the undefined id.
	ID uint32
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("module corrupted: %%%d is referenced but never defined", e.ID)
}

// ReorderError reports an OpTypeSampledImage with no matching OpTypeImage
// before it in the types region. It is only returned when
// Options.StrictReorder is set.
type ReorderError struct {
	// Combined is the OpTypeSampledImage result id.
	Combined uint32

	// Base is the image type id it references.
	Base uint32
}

// Error implements the error interface.
func (e *ReorderError) Error() string {
	return fmt.Sprintf("OpTypeSampledImage %%%d: image type %%%d is not declared before it", e.Combined, e.Base)
}
