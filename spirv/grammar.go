package spirv

// operandClass describes how the decoder consumes the words of one logical
// operand (or operand tail) of an instruction.
type operandClass uint8

const (
	classID         operandClass = iota // one id
	classLiteral                        // one literal word
	classString                         // nul-terminated literal string
	classOptID                          // id, if words remain
	classOptString                      // string, if words remain
	classIDs                            // ids until the end
	classLiterals                       // literal words until the end
	classImageOps                       // optional ImageOperands mask, then id parameters
	classMemoryAccess                   // optional MemoryAccess mask, then its parameters
	classSwitchTargets                  // (literal sized by selector type, id) pairs
	classIDLiteralPairs                 // (id, literal) pairs
	classSpecOp                         // wrapped opcode, then that opcode's operands
)

// layout is the grammar entry for one opcode.
type layout struct {
	resultType bool
	result     bool
	operands   []operandClass
}

// plain declares an instruction without result.
func plain(operands ...operandClass) layout {
	return layout{operands: operands}
}

// def declares an instruction with a result id but no result type.
func def(operands ...operandClass) layout {
	return layout{result: true, operands: operands}
}

// val declares an instruction with a result type and result id.
func val(operands ...operandClass) layout {
	return layout{resultType: true, result: true, operands: operands}
}

// Short aliases keep the table below readable.
const (
	cID   = classID
	cLit  = classLiteral
	cStr  = classString
	cIDs  = classIDs
	cLits = classLiterals
	cImg  = classImageOps
	cMem  = classMemoryAccess
)

var grammar = map[OpCode]layout{
	OpNop:             plain(),
	OpUndef:           val(),
	OpSourceContinued: plain(cStr),
	OpSource:          plain(cLit, cLit, classOptID, classOptString),
	OpSourceExtension: plain(cStr),
	OpName:            plain(cID, cStr),
	OpMemberName:      plain(cID, cLit, cStr),
	OpString:          def(cStr),
	OpLine:            plain(cID, cLit, cLit),
	OpNoLine:          plain(),
	OpModuleProcessed: plain(cStr),

	OpExtension:       plain(cStr),
	OpExtInstImport:   def(cStr),
	OpExtInst:         val(cID, cLit, cIDs),
	OpMemoryModel:     plain(cLit, cLit),
	OpEntryPoint:      plain(cLit, cID, cStr, cIDs),
	OpExecutionMode:   plain(cID, cLit, cLits),
	OpExecutionModeId: plain(cID, cLit, cIDs),
	OpCapability:      plain(cLit),

	OpDecorate:             plain(cID, cLit, cLits),
	OpDecorateId:           plain(cID, cLit, cIDs),
	OpDecorateString:       plain(cID, cLit, cLits),
	OpMemberDecorate:       plain(cID, cLit, cLit, cLits),
	OpMemberDecorateString: plain(cID, cLit, cLit, cLits),
	OpDecorationGroup:      def(),
	OpGroupDecorate:        plain(cID, cIDs),
	OpGroupMemberDecorate:  plain(cID, classIDLiteralPairs),

	OpTypeVoid:                     def(),
	OpTypeBool:                     def(),
	OpTypeInt:                      def(cLit, cLit),
	OpTypeFloat:                    def(cLit, cLits),
	OpTypeVector:                   def(cID, cLit),
	OpTypeMatrix:                   def(cID, cLit),
	OpTypeImage:                    def(cID, cLit, cLit, cLit, cLit, cLit, cLit, cLits),
	OpTypeSampler:                  def(),
	OpTypeSampledImage:             def(cID),
	OpTypeArray:                    def(cID, cID),
	OpTypeRuntimeArray:             def(cID),
	OpTypeStruct:                   def(cIDs),
	OpTypeOpaque:                   def(cStr),
	OpTypePointer:                  def(cLit, cID),
	OpTypeFunction:                 def(cID, cIDs),
	OpTypeForwardPointer:           plain(cID, cLit),
	OpTypeRayQueryKHR:              def(),
	OpTypeAccelerationStructureKHR: def(),

	OpConstantTrue:          val(),
	OpConstantFalse:         val(),
	OpConstant:              val(cLits),
	OpConstantComposite:     val(cIDs),
	OpConstantSampler:       val(cLit, cLit, cLit),
	OpConstantNull:          val(),
	OpSpecConstantTrue:      val(),
	OpSpecConstantFalse:     val(),
	OpSpecConstant:          val(cLits),
	OpSpecConstantComposite: val(cIDs),
	OpSpecConstantOp:        val(classSpecOp),

	OpFunction:          val(cLit, cID),
	OpFunctionParameter: val(),
	OpFunctionEnd:       plain(),
	OpFunctionCall:      val(cID, cIDs),

	OpVariable:               val(cLit, classOptID),
	OpImageTexelPointer:      val(cID, cID, cID),
	OpLoad:                   val(cID, cMem),
	OpStore:                  plain(cID, cID, cMem),
	OpCopyMemory:             plain(cID, cID, cMem, cMem),
	OpCopyMemorySized:        plain(cID, cID, cID, cMem, cMem),
	OpAccessChain:            val(cID, cIDs),
	OpInBoundsAccessChain:    val(cID, cIDs),
	OpPtrAccessChain:         val(cID, cID, cIDs),
	OpArrayLength:            val(cID, cLit),
	OpGenericPtrMemSemantics: val(cID),
	OpInBoundsPtrAccessChain: val(cID, cID, cIDs),
	OpCopyLogical:            val(cID),
	OpPtrEqual:               val(cID, cID),
	OpPtrNotEqual:            val(cID, cID),
	OpPtrDiff:                val(cID, cID),
	OpSizeOf:                 val(cID),

	OpVectorExtractDynamic: val(cID, cID),
	OpVectorInsertDynamic:  val(cID, cID, cID),
	OpVectorShuffle:        val(cID, cID, cLits),
	OpCompositeConstruct:   val(cIDs),
	OpCompositeExtract:     val(cID, cLits),
	OpCompositeInsert:      val(cID, cID, cLits),
	OpCopyObject:           val(cID),
	OpTranspose:            val(cID),

	OpSampledImage:                   val(cID, cID),
	OpImageSampleImplicitLod:         val(cID, cID, cImg),
	OpImageSampleExplicitLod:         val(cID, cID, cImg),
	OpImageSampleDrefImplicitLod:     val(cID, cID, cID, cImg),
	OpImageSampleDrefExplicitLod:     val(cID, cID, cID, cImg),
	OpImageSampleProjImplicitLod:     val(cID, cID, cImg),
	OpImageSampleProjExplicitLod:     val(cID, cID, cImg),
	OpImageSampleProjDrefImplicitLod: val(cID, cID, cID, cImg),
	OpImageSampleProjDrefExplicitLod: val(cID, cID, cID, cImg),
	OpImageFetch:                     val(cID, cID, cImg),
	OpImageGather:                    val(cID, cID, cID, cImg),
	OpImageDrefGather:                val(cID, cID, cID, cImg),
	OpImageRead:                      val(cID, cID, cImg),
	OpImageWrite:                     plain(cID, cID, cID, cImg),
	OpImage:                          val(cID),
	OpImageQueryFormat:               val(cID),
	OpImageQueryOrder:                val(cID),
	OpImageQuerySizeLod:              val(cID, cID),
	OpImageQuerySize:                 val(cID),
	OpImageQueryLod:                  val(cID, cID),
	OpImageQueryLevels:               val(cID),
	OpImageQuerySamples:              val(cID),

	OpImageSparseSampleImplicitLod:         val(cID, cID, cImg),
	OpImageSparseSampleExplicitLod:         val(cID, cID, cImg),
	OpImageSparseSampleDrefImplicitLod:     val(cID, cID, cID, cImg),
	OpImageSparseSampleDrefExplicitLod:     val(cID, cID, cID, cImg),
	OpImageSparseSampleProjImplicitLod:     val(cID, cID, cImg),
	OpImageSparseSampleProjExplicitLod:     val(cID, cID, cImg),
	OpImageSparseSampleProjDrefImplicitLod: val(cID, cID, cID, cImg),
	OpImageSparseSampleProjDrefExplicitLod: val(cID, cID, cID, cImg),
	OpImageSparseFetch:                     val(cID, cID, cImg),
	OpImageSparseGather:                    val(cID, cID, cID, cImg),
	OpImageSparseDrefGather:                val(cID, cID, cID, cImg),
	OpImageSparseTexelsResident:            val(cID),
	OpImageSparseRead:                      val(cID, cID, cImg),

	OpGenericCastToPtrExplicit: val(cID, cLit),
}

func init() {
	// Pure value instructions whose operands are all ids.
	for _, code := range []OpCode{
		OpConvertFToU, OpConvertFToS, OpConvertSToF, OpConvertUToF,
		OpUConvert, OpSConvert, OpFConvert, OpQuantizeToF16,
		OpConvertPtrToU, OpSatConvertSToU, OpSatConvertUToS, OpConvertUToPtr,
		OpPtrCastToGeneric, OpGenericCastToPtr, OpBitcast,
		OpIsHelperInvocationEXT,
	} {
		grammar[code] = val(cIDs)
	}
	for code := OpSNegate; code <= OpSMulExtended; code++ {
		if _, known := opcodeNames[code]; known {
			grammar[code] = val(cIDs)
		}
	}
	for code := OpAny; code <= OpBitCount; code++ {
		if _, known := opcodeNames[code]; known {
			grammar[code] = val(cIDs)
		}
	}
	for code := OpDPdx; code <= OpFwidthCoarse; code++ {
		grammar[code] = val(cIDs)
	}
	for code := OpAtomicLoad; code <= OpAtomicXor; code++ {
		grammar[code] = val(cIDs)
	}
	grammar[OpAtomicStore] = plain(cIDs)

	// Geometry, barriers and control flow.
	grammar[OpEmitVertex] = plain()
	grammar[OpEndPrimitive] = plain()
	grammar[OpEmitStreamVertex] = plain(cID)
	grammar[OpEndStreamPrimitive] = plain(cID)
	grammar[OpControlBarrier] = plain(cID, cID, cID)
	grammar[OpMemoryBarrier] = plain(cID, cID)
	grammar[OpPhi] = val(cIDs)
	grammar[OpLoopMerge] = plain(cID, cID, cLits)
	grammar[OpSelectionMerge] = plain(cID, cLit)
	grammar[OpLabel] = def()
	grammar[OpBranch] = plain(cID)
	grammar[OpBranchConditional] = plain(cID, cID, cID, cLits)
	grammar[OpSwitch] = plain(cID, cID, classSwitchTargets)
	grammar[OpKill] = plain()
	grammar[OpReturn] = plain()
	grammar[OpReturnValue] = plain(cID)
	grammar[OpUnreachable] = plain()
	grammar[OpLifetimeStart] = plain(cID, cLit)
	grammar[OpLifetimeStop] = plain(cID, cLit)
	grammar[OpTerminateInvocation] = plain()
	grammar[OpDemoteToHelperInvocation] = plain()

	// Subgroup operations. The arithmetic group carries a GroupOperation
	// literal and an optional ClusterSize id.
	for code := OpGroupNonUniformElect; code <= OpGroupNonUniformQuadSwap; code++ {
		grammar[code] = val(cIDs)
	}
	grammar[OpGroupNonUniformBallotBitCount] = val(cID, cLit, cID)
	for code := OpGroupNonUniformIAdd; code <= OpGroupNonUniformLogicalXor; code++ {
		grammar[code] = val(cID, cLit, cID, classOptID)
	}
}

// lookupLayout returns the grammar entry for op.
func lookupLayout(code OpCode) (layout, bool) {
	l, ok := grammar[code]
	return l, ok
}
