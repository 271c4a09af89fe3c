// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package legalize folds separately declared images and samplers into
// combined image-sampler types.
//
// Front ends that keep images and samplers apart emit OpSampledImage at each
// use site to build a combined value on the fly. Some consumers only accept
// the canonical form, where the image itself is declared with an
// OpTypeSampledImage type. Run rewrites a module into that form in four
// passes over the instruction stream:
//
//  1. Reorder moves each OpTypeSampledImage to directly follow its OpTypeImage.
//  2. BuildMaps collects the OpSampledImage results to collapse and the image
//     types to promote.
//  3. Rewrite applies both substitutions to every instruction.
//  4. EliminateDead replaces instructions left without users by OpNop.
//
// Instructions are never removed from the stream. Nullified instructions keep
// their position as OpNop so indices taken by earlier passes stay valid.
//
// Example:
//
//	m, err := spirv.Parse(data, spirv.DefaultParseOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	stats, err := legalize.Run(m, legalize.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := spirv.Assemble(m)
package legalize
