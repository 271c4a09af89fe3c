// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvlegalize/spirv"
)

func writeModule(t *testing.T, extra ...uint32) string {
	t.Helper()
	b := spirv.NewModuleBuilder(spirv.Version1_0)
	b.AddCapability(spirv.CapabilityShader)
	b.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
	floatType := b.AddTypeFloat(32)
	b.AddTypeSampledImage(b.AddTypeImage(spirv.ImageType{SampledType: floatType, Dim: spirv.Dim2D, Sampled: 1}))
	data, err := b.Build()
	require.NoError(t, err)
	for _, w := range extra {
		data = binary.LittleEndian.AppendUint32(data, w)
	}

	path := filepath.Join(t.TempDir(), "shader.spv")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestDisassemble_Stdout(t *testing.T) {
	out, err := run(t, writeModule(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "; SPIR-V\n; Version: 1.0\n"), out)
	assert.Contains(t, out, "OpCapability Shader\n")
	assert.Contains(t, out, "%2 = OpTypeImage %1 2D 0 0 0 1 0\n")
	assert.Contains(t, out, "%3 = OpTypeSampledImage %2\n")
}

func TestDisassemble_OutputFile(t *testing.T) {
	path := writeModule(t)
	listing := filepath.Join(t.TempDir(), "shader.spvasm")

	stdout, err := run(t, path)
	require.NoError(t, err)

	out, err := run(t, "-o", listing, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(listing)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(data))
}

func TestDisassemble_OutputFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("decode error", func(t *testing.T) {
		listing := filepath.Join(dir, "unknown.spvasm")
		_, err := run(t, "-o", listing, writeModule(t, 2<<16|9999, 7))
		require.Error(t, err)
		assert.NoFileExists(t, listing)
	})

	t.Run("unwritable path", func(t *testing.T) {
		listing := filepath.Join(dir, "missing", "shader.spvasm")
		_, err := run(t, "-o", listing, writeModule(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NoFileExists(t, listing)
	})
}

func TestDisassemble_UnknownOpcode(t *testing.T) {
	path := writeModule(t, 2<<16|9999, 7)

	_, err := run(t, path)
	require.Error(t, err)
	var decErr *spirv.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, spirv.ErrUnknownOpcode, decErr.Kind)

	out, err := run(t, "--allow-unknown", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Op9999 7\n")
}
