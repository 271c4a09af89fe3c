package spirv

import "math"

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	inst Instruction
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder(opcode OpCode) *InstructionBuilder {
	return &InstructionBuilder{
		inst: Instruction{Opcode: opcode, Operands: make([]Operand, 0, 4)},
	}
}

// SetResultType sets the result type id.
func (b *InstructionBuilder) SetResultType(id uint32) *InstructionBuilder {
	b.inst.ResultType = id
	return b
}

// SetResult sets the result id.
func (b *InstructionBuilder) SetResult(id uint32) *InstructionBuilder {
	b.inst.ResultID = id
	return b
}

// AddID adds an id reference operand.
func (b *InstructionBuilder) AddID(id uint32) *InstructionBuilder {
	b.inst.Operands = append(b.inst.Operands, IDOperand(id))
	return b
}

// AddWord adds a literal word.
func (b *InstructionBuilder) AddWord(word uint32) *InstructionBuilder {
	b.inst.Operands = append(b.inst.Operands, LiteralOperand(word))
	return b
}

// AddString adds a literal string.
func (b *InstructionBuilder) AddString(s string) *InstructionBuilder {
	b.inst.Operands = append(b.inst.Operands, StringOperand(s))
	return b
}

// Build returns the finished instruction.
func (b *InstructionBuilder) Build() Instruction {
	return b.inst
}

// ModuleBuilder builds complete SPIR-V modules.
type ModuleBuilder struct {
	// Header
	version   Version
	generator uint32
	schema    uint32

	// Sections (ordered per SPIR-V spec)
	capabilities   []Instruction
	extensions     []Instruction
	extInstImports []Instruction
	memoryModel    *Instruction
	entryPoints    []Instruction
	executionModes []Instruction
	debugStrings   []Instruction // OpString
	debugNames     []Instruction // OpName, OpMemberName
	annotations    []Instruction // OpDecorate, OpMemberDecorate
	types          []Instruction // OpType*, OpConstant*, global OpVariable
	functions      []Instruction // OpFunction...OpFunctionEnd

	// ID allocation
	nextID uint32
}

// NewModuleBuilder creates a new SPIR-V module builder.
func NewModuleBuilder(version Version) *ModuleBuilder {
	return &ModuleBuilder{
		version:   version,
		generator: GeneratorID,
		nextID:    1,
	}
}

// AllocID allocates a new SPIR-V ID.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// AddCapability adds a capability.
func (b *ModuleBuilder) AddCapability(capability Capability) {
	b.capabilities = append(b.capabilities, NewInstructionBuilder(OpCapability).AddWord(uint32(capability)).Build())
}

// AddExtension adds an extension.
func (b *ModuleBuilder) AddExtension(name string) {
	b.extensions = append(b.extensions, NewInstructionBuilder(OpExtension).AddString(name).Build())
}

// AddExtInstImport imports an extended instruction set.
func (b *ModuleBuilder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	b.extInstImports = append(b.extInstImports, NewInstructionBuilder(OpExtInstImport).SetResult(id).AddString(name).Build())
	return id
}

// SetMemoryModel sets the memory model.
func (b *ModuleBuilder) SetMemoryModel(addressing AddressingModel, memory MemoryModel) {
	inst := NewInstructionBuilder(OpMemoryModel).AddWord(uint32(addressing)).AddWord(uint32(memory)).Build()
	b.memoryModel = &inst
}

// AddEntryPoint adds an entry point.
func (b *ModuleBuilder) AddEntryPoint(execModel ExecutionModel, funcID uint32, name string, interfaces []uint32) {
	builder := NewInstructionBuilder(OpEntryPoint).AddWord(uint32(execModel)).AddID(funcID).AddString(name)
	for _, iface := range interfaces {
		builder.AddID(iface)
	}
	b.entryPoints = append(b.entryPoints, builder.Build())
}

// AddExecutionMode adds an execution mode.
func (b *ModuleBuilder) AddExecutionMode(entryPoint uint32, mode ExecutionMode, params ...uint32) {
	builder := NewInstructionBuilder(OpExecutionMode).AddID(entryPoint).AddWord(uint32(mode))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.executionModes = append(b.executionModes, builder.Build())
}

// AddString adds a debug string.
func (b *ModuleBuilder) AddString(text string) uint32 {
	id := b.AllocID()
	b.debugStrings = append(b.debugStrings, NewInstructionBuilder(OpString).SetResult(id).AddString(text).Build())
	return id
}

// AddName adds a debug name.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	b.debugNames = append(b.debugNames, NewInstructionBuilder(OpName).AddID(id).AddString(name).Build())
}

// AddMemberName adds a debug member name.
func (b *ModuleBuilder) AddMemberName(structID, member uint32, name string) {
	b.debugNames = append(b.debugNames, NewInstructionBuilder(OpMemberName).AddID(structID).AddWord(member).AddString(name).Build())
}

// AddDecorate adds a decoration.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, params ...uint32) {
	builder := NewInstructionBuilder(OpDecorate).AddID(id).AddWord(uint32(decoration))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.annotations = append(b.annotations, builder.Build())
}

// AddMemberDecorate adds a member decoration.
func (b *ModuleBuilder) AddMemberDecorate(structID, member uint32, decoration Decoration, params ...uint32) {
	builder := NewInstructionBuilder(OpMemberDecorate).AddID(structID).AddWord(member).AddWord(uint32(decoration))
	for _, param := range params {
		builder.AddWord(param)
	}
	b.annotations = append(b.annotations, builder.Build())
}

// addType appends a result-only declaration to the types section.
func (b *ModuleBuilder) addType(builder *InstructionBuilder) uint32 {
	id := b.AllocID()
	b.types = append(b.types, builder.SetResult(id).Build())
	return id
}

// AddTypeVoid adds OpTypeVoid.
func (b *ModuleBuilder) AddTypeVoid() uint32 {
	return b.addType(NewInstructionBuilder(OpTypeVoid))
}

// AddTypeBool adds OpTypeBool.
func (b *ModuleBuilder) AddTypeBool() uint32 {
	return b.addType(NewInstructionBuilder(OpTypeBool))
}

// AddTypeFloat adds OpTypeFloat.
func (b *ModuleBuilder) AddTypeFloat(width uint32) uint32 {
	return b.addType(NewInstructionBuilder(OpTypeFloat).AddWord(width))
}

// AddTypeInt adds OpTypeInt.
func (b *ModuleBuilder) AddTypeInt(width uint32, signed bool) uint32 {
	signedness := uint32(0)
	if signed {
		signedness = 1
	}
	return b.addType(NewInstructionBuilder(OpTypeInt).AddWord(width).AddWord(signedness))
}

// AddTypeVector adds OpTypeVector.
func (b *ModuleBuilder) AddTypeVector(componentType uint32, count uint32) uint32 {
	return b.addType(NewInstructionBuilder(OpTypeVector).AddID(componentType).AddWord(count))
}

// AddTypeMatrix adds OpTypeMatrix.
func (b *ModuleBuilder) AddTypeMatrix(columnType uint32, columnCount uint32) uint32 {
	return b.addType(NewInstructionBuilder(OpTypeMatrix).AddID(columnType).AddWord(columnCount))
}

// ImageType describes the operands of OpTypeImage.
type ImageType struct {
	SampledType  uint32
	Dim          Dim
	Depth        uint32 // 0 = not depth, 1 = depth, 2 = unknown
	Arrayed      bool
	Multisampled bool
	Sampled      uint32 // 1 = used with a sampler, 2 = storage
	Format       ImageFormat
}

// AddTypeImage adds OpTypeImage.
func (b *ModuleBuilder) AddTypeImage(img ImageType) uint32 {
	boolWord := func(v bool) uint32 {
		if v {
			return 1
		}
		return 0
	}
	return b.addType(NewInstructionBuilder(OpTypeImage).
		AddID(img.SampledType).
		AddWord(uint32(img.Dim)).
		AddWord(img.Depth).
		AddWord(boolWord(img.Arrayed)).
		AddWord(boolWord(img.Multisampled)).
		AddWord(img.Sampled).
		AddWord(uint32(img.Format)))
}

// AddTypeSampler adds OpTypeSampler.
func (b *ModuleBuilder) AddTypeSampler() uint32 {
	return b.addType(NewInstructionBuilder(OpTypeSampler))
}

// AddTypeSampledImage adds OpTypeSampledImage.
func (b *ModuleBuilder) AddTypeSampledImage(imageType uint32) uint32 {
	return b.addType(NewInstructionBuilder(OpTypeSampledImage).AddID(imageType))
}

// AddTypeArray adds OpTypeArray.
func (b *ModuleBuilder) AddTypeArray(elementType uint32, length uint32) uint32 {
	return b.addType(NewInstructionBuilder(OpTypeArray).AddID(elementType).AddID(length)) // length is a constant ID
}

// AddTypePointer adds OpTypePointer.
func (b *ModuleBuilder) AddTypePointer(storageClass StorageClass, baseType uint32) uint32 {
	return b.addType(NewInstructionBuilder(OpTypePointer).AddWord(uint32(storageClass)).AddID(baseType))
}

// AddTypeFunction adds OpTypeFunction.
func (b *ModuleBuilder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	builder := NewInstructionBuilder(OpTypeFunction).AddID(returnType)
	for _, paramType := range paramTypes {
		builder.AddID(paramType)
	}
	return b.addType(builder)
}

// AddTypeStruct adds OpTypeStruct.
func (b *ModuleBuilder) AddTypeStruct(memberTypes ...uint32) uint32 {
	builder := NewInstructionBuilder(OpTypeStruct)
	for _, memberType := range memberTypes {
		builder.AddID(memberType)
	}
	return b.addType(builder)
}

// AddConstant adds OpConstant.
func (b *ModuleBuilder) AddConstant(typeID uint32, values ...uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder(OpConstant).SetResultType(typeID).SetResult(id)
	for _, value := range values {
		builder.AddWord(value)
	}
	b.types = append(b.types, builder.Build())
	return id
}

// AddConstantFloat32 adds a 32-bit float constant.
func (b *ModuleBuilder) AddConstantFloat32(typeID uint32, value float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(value))
}

// AddConstantComposite adds OpConstantComposite.
func (b *ModuleBuilder) AddConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	id := b.AllocID()
	builder := NewInstructionBuilder(OpConstantComposite).SetResultType(typeID).SetResult(id)
	for _, constituent := range constituents {
		builder.AddID(constituent)
	}
	b.types = append(b.types, builder.Build())
	return id
}

// AddVariable adds a module-scope OpVariable.
func (b *ModuleBuilder) AddVariable(pointerType uint32, storageClass StorageClass) uint32 {
	id := b.AllocID()
	b.types = append(b.types, NewInstructionBuilder(OpVariable).SetResultType(pointerType).SetResult(id).AddWord(uint32(storageClass)).Build())
	return id
}

// AddLocalVariable adds a function-scope OpVariable at the current position
// of the function body.
func (b *ModuleBuilder) AddLocalVariable(pointerType uint32) uint32 {
	id := b.AllocID()
	b.functions = append(b.functions, NewInstructionBuilder(OpVariable).SetResultType(pointerType).SetResult(id).AddWord(uint32(StorageClassFunction)).Build())
	return id
}

// AddFunction adds a function definition.
func (b *ModuleBuilder) AddFunction(funcType uint32, returnType uint32, control FunctionControl) uint32 {
	id := b.AllocID()
	b.functions = append(b.functions, NewInstructionBuilder(OpFunction).SetResultType(returnType).SetResult(id).AddWord(uint32(control)).AddID(funcType).Build())
	return id
}

// AddFunctionParameter adds a function parameter.
func (b *ModuleBuilder) AddFunctionParameter(typeID uint32) uint32 {
	return b.addValue(NewInstructionBuilder(OpFunctionParameter), typeID)
}

// AddLabel adds a label.
func (b *ModuleBuilder) AddLabel() uint32 {
	id := b.AllocID()
	b.functions = append(b.functions, NewInstructionBuilder(OpLabel).SetResult(id).Build())
	return id
}

// AddReturn adds OpReturn.
func (b *ModuleBuilder) AddReturn() {
	b.functions = append(b.functions, NewInstructionBuilder(OpReturn).Build())
}

// AddReturnValue adds OpReturnValue.
func (b *ModuleBuilder) AddReturnValue(valueID uint32) {
	b.functions = append(b.functions, NewInstructionBuilder(OpReturnValue).AddID(valueID).Build())
}

// AddFunctionEnd adds OpFunctionEnd.
func (b *ModuleBuilder) AddFunctionEnd() {
	b.functions = append(b.functions, NewInstructionBuilder(OpFunctionEnd).Build())
}

// AddFunctionCall adds OpFunctionCall.
func (b *ModuleBuilder) AddFunctionCall(resultType uint32, function uint32, args ...uint32) uint32 {
	builder := NewInstructionBuilder(OpFunctionCall).AddID(function)
	for _, arg := range args {
		builder.AddID(arg)
	}
	return b.addValue(builder, resultType)
}

// addValue appends a value-producing instruction to the function body.
func (b *ModuleBuilder) addValue(builder *InstructionBuilder, resultType uint32) uint32 {
	resultID := b.AllocID()
	b.functions = append(b.functions, builder.SetResultType(resultType).SetResult(resultID).Build())
	return resultID
}

// AddBinaryOp adds a binary operation instruction.
func (b *ModuleBuilder) AddBinaryOp(opcode OpCode, resultType uint32, left uint32, right uint32) uint32 {
	return b.addValue(NewInstructionBuilder(opcode).AddID(left).AddID(right), resultType)
}

// AddUnaryOp adds a unary operation instruction.
func (b *ModuleBuilder) AddUnaryOp(opcode OpCode, resultType uint32, operand uint32) uint32 {
	return b.addValue(NewInstructionBuilder(opcode).AddID(operand), resultType)
}

// AddLoad adds OpLoad.
func (b *ModuleBuilder) AddLoad(resultType uint32, pointer uint32) uint32 {
	return b.addValue(NewInstructionBuilder(OpLoad).AddID(pointer), resultType)
}

// AddStore adds OpStore.
func (b *ModuleBuilder) AddStore(pointer uint32, value uint32) {
	b.functions = append(b.functions, NewInstructionBuilder(OpStore).AddID(pointer).AddID(value).Build())
}

// AddAccessChain adds OpAccessChain.
func (b *ModuleBuilder) AddAccessChain(resultType uint32, base uint32, indices ...uint32) uint32 {
	builder := NewInstructionBuilder(OpAccessChain).AddID(base)
	for _, index := range indices {
		builder.AddID(index)
	}
	return b.addValue(builder, resultType)
}

// AddCompositeConstruct adds OpCompositeConstruct.
func (b *ModuleBuilder) AddCompositeConstruct(resultType uint32, constituents ...uint32) uint32 {
	builder := NewInstructionBuilder(OpCompositeConstruct)
	for _, constituent := range constituents {
		builder.AddID(constituent)
	}
	return b.addValue(builder, resultType)
}

// AddCompositeExtract adds OpCompositeExtract.
func (b *ModuleBuilder) AddCompositeExtract(resultType uint32, composite uint32, indices ...uint32) uint32 {
	builder := NewInstructionBuilder(OpCompositeExtract).AddID(composite)
	for _, index := range indices {
		builder.AddWord(index)
	}
	return b.addValue(builder, resultType)
}

// AddSampledImage adds OpSampledImage, combining an image and a sampler value.
func (b *ModuleBuilder) AddSampledImage(resultType uint32, image uint32, sampler uint32) uint32 {
	return b.addValue(NewInstructionBuilder(OpSampledImage).AddID(image).AddID(sampler), resultType)
}

// AddImageSample adds an image sampling instruction such as
// OpImageSampleImplicitLod. The operands mask and its id parameters are
// appended when mask is not ImageOperandsNone.
func (b *ModuleBuilder) AddImageSample(opcode OpCode, resultType uint32, sampledImage uint32, coordinate uint32, mask uint32, params ...uint32) uint32 {
	builder := NewInstructionBuilder(opcode).AddID(sampledImage).AddID(coordinate)
	if mask != ImageOperandsNone {
		builder.AddWord(mask)
		for _, param := range params {
			builder.AddID(param)
		}
	}
	return b.addValue(builder, resultType)
}

// AddImage adds OpImage, extracting the image from a sampled image.
func (b *ModuleBuilder) AddImage(resultType uint32, sampledImage uint32) uint32 {
	return b.addValue(NewInstructionBuilder(OpImage).AddID(sampledImage), resultType)
}

// AddSelectionMerge adds OpSelectionMerge.
func (b *ModuleBuilder) AddSelectionMerge(mergeLabel uint32, control SelectionControl) {
	b.functions = append(b.functions, NewInstructionBuilder(OpSelectionMerge).AddID(mergeLabel).AddWord(uint32(control)).Build())
}

// AddLoopMerge adds OpLoopMerge.
func (b *ModuleBuilder) AddLoopMerge(mergeLabel uint32, continueLabel uint32, control LoopControl) {
	b.functions = append(b.functions, NewInstructionBuilder(OpLoopMerge).AddID(mergeLabel).AddID(continueLabel).AddWord(uint32(control)).Build())
}

// AddBranch adds OpBranch.
func (b *ModuleBuilder) AddBranch(target uint32) {
	b.functions = append(b.functions, NewInstructionBuilder(OpBranch).AddID(target).Build())
}

// AddBranchConditional adds OpBranchConditional.
func (b *ModuleBuilder) AddBranchConditional(condition uint32, trueLabel uint32, falseLabel uint32) {
	b.functions = append(b.functions, NewInstructionBuilder(OpBranchConditional).AddID(condition).AddID(trueLabel).AddID(falseLabel).Build())
}

// AddPhi adds OpPhi from (value, parent label) pairs.
func (b *ModuleBuilder) AddPhi(resultType uint32, pairs ...uint32) uint32 {
	builder := NewInstructionBuilder(OpPhi)
	for _, id := range pairs {
		builder.AddID(id)
	}
	return b.addValue(builder, resultType)
}

// AddKill adds OpKill (fragment shader discard).
func (b *ModuleBuilder) AddKill() {
	b.functions = append(b.functions, NewInstructionBuilder(OpKill).Build())
}

// AddExtInst adds OpExtInst (extended instruction).
func (b *ModuleBuilder) AddExtInst(resultType uint32, extSet uint32, instruction uint32, operands ...uint32) uint32 {
	builder := NewInstructionBuilder(OpExtInst).AddID(extSet).AddWord(instruction)
	for _, operand := range operands {
		builder.AddID(operand)
	}
	return b.addValue(builder, resultType)
}

// AddRaw appends a prebuilt instruction to the types section, or to the
// function body when inFunction is set. Tests use it to lay out modules the
// typed helpers cannot express.
func (b *ModuleBuilder) AddRaw(inst Instruction, inFunction bool) {
	if inFunction {
		b.functions = append(b.functions, inst)
		return
	}
	b.types = append(b.types, inst)
}

// Module assembles the sections into a Module in logical layout order.
func (b *ModuleBuilder) Module() *Module {
	var insts []Instruction
	insts = append(insts, b.capabilities...)
	insts = append(insts, b.extensions...)
	insts = append(insts, b.extInstImports...)
	if b.memoryModel != nil {
		insts = append(insts, *b.memoryModel)
	}
	insts = append(insts, b.entryPoints...)
	insts = append(insts, b.executionModes...)
	insts = append(insts, b.debugStrings...)
	insts = append(insts, b.debugNames...)
	insts = append(insts, b.annotations...)
	insts = append(insts, b.types...)
	insts = append(insts, b.functions...)

	m := &Module{
		Header: Header{
			Version:   b.version,
			Generator: b.generator,
			Bound:     b.nextID,
			Schema:    b.schema,
		},
		Instructions: make([]Instruction, len(insts)),
	}
	for i, inst := range insts {
		m.Instructions[i] = inst.Clone()
	}
	return m
}

// Build generates the final SPIR-V binary.
func (b *ModuleBuilder) Build() ([]byte, error) {
	return Assemble(b.Module())
}
