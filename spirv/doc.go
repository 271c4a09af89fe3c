// Package spirv decodes, encodes and prints SPIR-V binary modules.
//
// A Module is the header plus the flat instruction stream in logical layout
// order. Every instruction keeps its operands classified as id references,
// literal words or literal strings, so passes can rewrite ids without knowing
// each opcode's grammar:
//
//	m, err := spirv.Parse(data, spirv.DefaultParseOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for i := range m.Instructions {
//		m.Instructions[i].RemapIDs(renames)
//	}
//	out, err := spirv.Assemble(m)
//
// # Operand Classification
//
// The decoder classifies operands from a grammar table keyed by opcode. The
// context-sensitive cases are handled explicitly:
//   - ImageOperands masks are followed by id parameters only
//   - MemoryAccess masks take a literal alignment and then ids, in bit order
//   - OpSwitch case literals are one or two words wide, per the selector type
//   - OpSpecConstantOp operands follow the wrapped opcode's grammar
//
// Opcodes missing from the table fail decoding unless
// ParseOptions.AllowUnknownOpcodes is set, in which case their operands are
// kept as opaque literals.
//
// # Building Modules
//
// ModuleBuilder lays out modules section by section and is mostly used to
// construct test inputs:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//	floatType := builder.AddTypeFloat(32)
//	image := builder.AddTypeImage(spirv.ImageType{SampledType: floatType, Dim: spirv.Dim2D, Sampled: 1})
//	binary, err := builder.Build()
//
// # Module Layout
//
// A module is a 5-word header followed by instructions in a fixed logical
// order: capabilities, extensions, extended instruction imports, the memory
// model, entry points, execution modes, debug names, decorations, then the
// types region (types, constants and global variables) and finally function
// bodies. [Module.TypesRegion] and [Module.SectionOf] locate these sections
// in a decoded module.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
