// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package logger provides the slog handler used for command-line trace output.
//
// Records are written one per line as the message followed by key=value
// attributes. Attribute values that carry their own String method, such as
// disassembled instructions, are shown in reverse video so they stand out
// from the surrounding text.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	highlight = color.New(color.ReverseVideo).SprintFunc()
	warnLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	errLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
)

// New returns a logger writing to w. Debug records are emitted only when
// verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewTraceHandler(w, Level(verbose)))
}

// Level returns the minimum level New uses for the given verbosity.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TraceHandler is a slog.Handler producing terse, unquoted trace lines.
type TraceHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string // group prefix for attribute keys
}

// NewTraceHandler creates a TraceHandler writing records at or above level.
func NewTraceHandler(w io.Writer, level slog.Leveler) *TraceHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &TraceHandler{w: w, mu: new(sync.Mutex), level: level}
}

// WithLevel returns a copy of h filtering at level. The copy shares h's
// writer lock, so loggers with different levels can write to one stream.
func (h *TraceHandler) WithLevel(level slog.Leveler) *TraceHandler {
	clone := *h
	clone.level = level
	return &clone
}

// Enabled implements slog.Handler.
func (h *TraceHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *TraceHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	switch {
	case record.Level >= slog.LevelError:
		sb.WriteString(errLabel("error:") + " ")
	case record.Level >= slog.LevelWarn:
		sb.WriteString(warnLabel("warning:") + " ")
	}
	sb.WriteString(record.Message)

	for _, attr := range h.attrs {
		writeAttr(&sb, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&sb, h.prefix, attr)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.prefix + attr.Key
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *TraceHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func writeAttr(sb *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := prefix
		if attr.Key != "" {
			group += attr.Key + "."
		}
		for _, inner := range attr.Value.Group() {
			writeAttr(sb, group, inner)
		}
		return
	}

	sb.WriteByte(' ')
	sb.WriteString(prefix + attr.Key)
	sb.WriteByte('=')
	if attr.Value.Kind() == slog.KindAny {
		if s, ok := attr.Value.Any().(fmt.Stringer); ok {
			sb.WriteString(highlight(s.String()))
			return
		}
	}
	sb.WriteString(attr.Value.String())
}
