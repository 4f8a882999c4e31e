// Package lir lowers a typed ir.Function body into a flat list of
// three-address-code instructions operating on an unbounded set of
// virtual slots, one per ir.VarStore plus one per intermediate result.
// Unlike the teacher's lir package, which feeds a full register allocator
// (backend/lir/regalloc.go), yacari's x86 backend never runs allocation:
// every Value here is assigned a fixed stack slot at lowering time, and
// the backend pulls operands through a single pair of scratch registers
// (spec.md §4.6, grounded on the falcon reference file's stack-slot
// discipline).
package lir

import "github.com/yacari-lang/yacari/src/ir"

// DataType distinguishes the two physical value classes the backend
// cares about: general-purpose integer/bool/pointer values, and
// floating-point values (which live in XMM registers, not GP ones).
type DataType int

const (
	DataInt DataType = iota
	DataFloat
)

// Op identifies a three-address-code operation.
type Op int

const (
	OpConstInt Op = iota
	OpConstFloat
	OpLoad           // dst = slot[Src1]
	OpStore          // slot[Dst] = Src1
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpNot
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe
	OpAnd
	OpOr
	// Float-typed counterparts of the arithmetic/compare/negate ops above,
	// selected whenever an operand's DataType is DataFloat (spec.md §4.6:
	// "binary on floats -> corresponding float ops ... relational mapped
	// to float compares"). The backend (src/jit/x86) lowers these through
	// the SSE2 scalar-double instruction set instead of the integer ALU.
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFNeg
	OpFCmpEq
	OpFCmpNe
	OpFCmpLt
	OpFCmpLe
	OpFCmpGt
	OpFCmpGe
	OpJump           // unconditional jump to Target
	OpJumpIfZero     // jump to Target if Src1 == 0
	OpCall           // call Func with Args, result in Dst
	OpReturn         // return Src1 (or nothing if Src1.Slot < 0)
	OpLabel          // marks the start of a block; no-op at codegen time, target for jumps
)

// Value is one three-address-code instruction's result slot. Slot is a
// stable index into the function's flat value table; the backend spills
// every Value to its own stack offset ((Slot + 1) * 8 bytes below the frame
// pointer), so no two Values are ever live in the same physical location
// at once.
type Value struct {
	Slot int
	Typ  DataType
}

// Instr is one three-address-code instruction.
type Instr struct {
	Op       Op
	Dst      Value // result slot (for OpStore, the slot written); unset (Slot -1) for OpJump/OpJumpIfZero/OpReturn
	Src1     Value
	Src2     Value
	ConstInt int64
	ConstF   float64
	Target   int      // block index, for OpJump/OpJumpIfZero/OpLabel
	Func     ir.FuncRef
	Args     []Value
}

// Block is a straight-line run of instructions ending in a jump, a
// conditional jump, or a return.
type Block struct {
	Instrs []Instr
}

// Function is a lowered ir.Function: its blocks, and the number of
// 8-byte stack slots the backend must reserve in the prologue.
type Function struct {
	Source   *ir.Function
	Blocks   []*Block
	NumSlots int
	Params   []Value // parameter slots, indices into the same slot space as locals
}

func noValue() Value { return Value{Slot: -1} }

func dataTypeOf(t ir.Type) DataType {
	if t.Kind() == ir.KindF64 {
		return DataFloat
	}
	return DataInt
}

// lowerer walks an ir.Expr tree emitting instructions into the current
// block, allocating a fresh slot per VarStore and per intermediate value.
type lowerer struct {
	fn       *Function
	cur      *Block
	slotForVar map[int]int // ir.VarStore.Index -> lir slot
	nextSlot int
}

// Lower translates fn's typed body into a Function of flat 3AC blocks.
// Lower never fails: any ir.PoisonExpr reached here indicates a prior
// diagnostic already explained the problem, and is lowered to a zeroed
// constant so the walk can still produce a well-formed (if meaningless)
// instruction stream.
func Lower(fn *ir.Function) *Function {
	out := &Function{Source: fn}
	lw := &lowerer{fn: out, slotForVar: make(map[int]int)}
	lw.cur = &Block{}
	out.Blocks = append(out.Blocks, lw.cur)

	for _, p := range fn.Params {
		slot := lw.allocVar(p.Index, dataTypeOf(p.Typ))
		out.Params = append(out.Params, Value{Slot: slot, Typ: dataTypeOf(p.Typ)})
	}

	if fn.Body != nil {
		result := lw.lower(fn.Body)
		lw.emit(Instr{Op: OpReturn, Src1: result, Dst: noValue()})
	} else {
		lw.emit(Instr{Op: OpReturn, Dst: noValue(), Src1: noValue()})
	}
	out.NumSlots = lw.nextSlot
	return out
}

func (lw *lowerer) allocVar(varIndex int, dt DataType) int {
	if s, ok := lw.slotForVar[varIndex]; ok {
		return s
	}
	s := lw.nextSlot
	lw.nextSlot++
	lw.slotForVar[varIndex] = s
	return s
}

func (lw *lowerer) newTemp(dt DataType) Value {
	s := lw.nextSlot
	lw.nextSlot++
	return Value{Slot: s, Typ: dt}
}

func (lw *lowerer) emit(i Instr) {
	lw.cur.Instrs = append(lw.cur.Instrs, i)
}

func (lw *lowerer) newBlock() (idx int, b *Block) {
	b = &Block{}
	lw.fn.Blocks = append(lw.fn.Blocks, b)
	return len(lw.fn.Blocks) - 1, b
}

func (lw *lowerer) lower(e ir.Expr) Value {
	switch n := e.(type) {
	case *ir.PoisonExpr:
		dst := lw.newTemp(DataInt)
		lw.emit(Instr{Op: OpConstInt, Dst: dst, ConstInt: 0})
		return dst
	case *ir.Constant:
		return lw.lowerConstant(n)
	case *ir.Variable:
		dt := dataTypeOf(n.Typ())
		slot := lw.allocVar(n.Index, dt)
		dst := lw.newTemp(dt)
		lw.emit(Instr{Op: OpLoad, Dst: dst, Src1: Value{Slot: slot, Typ: dt}})
		return dst
	case *ir.Assign:
		return lw.lowerAssign(n)
	case *ir.Binary:
		return lw.lowerBinary(n)
	case *ir.Unary:
		return lw.lowerUnary(n)
	case *ir.Block:
		return lw.lowerBlock(n)
	case *ir.If:
		return lw.lowerIf(n)
	case *ir.While:
		return lw.lowerWhile(n)
	case *ir.Call:
		return lw.lowerCall(n)
	default:
		dst := lw.newTemp(DataInt)
		lw.emit(Instr{Op: OpConstInt, Dst: dst, ConstInt: 0})
		return dst
	}
}

func (lw *lowerer) lowerConstant(n *ir.Constant) Value {
	switch n.Kind {
	case ir.ConstFloat:
		dst := lw.newTemp(DataFloat)
		lw.emit(Instr{Op: OpConstFloat, Dst: dst, ConstF: n.Float})
		return dst
	case ir.ConstBool:
		dst := lw.newTemp(DataInt)
		v := int64(0)
		if n.Bool {
			v = 1
		}
		lw.emit(Instr{Op: OpConstInt, Dst: dst, ConstInt: v})
		return dst
	case ir.ConstInt:
		dst := lw.newTemp(DataInt)
		lw.emit(Instr{Op: OpConstInt, Dst: dst, ConstInt: n.Int})
		return dst
	default:
		// Function/class/string constants are resolved directly at the
		// call site (lowerCall) or are not runtime values; here they
		// lower to a placeholder zero so the walk stays total.
		dst := lw.newTemp(DataInt)
		lw.emit(Instr{Op: OpConstInt, Dst: dst, ConstInt: 0})
		return dst
	}
}

func (lw *lowerer) lowerAssign(n *ir.Assign) Value {
	value := lw.lower(n.Value)
	v, ok := n.Store.(*ir.Variable)
	if !ok {
		return value
	}
	dt := dataTypeOf(v.Typ())
	slot := lw.allocVar(v.Index, dt)
	lw.emit(Instr{Op: OpStore, Dst: Value{Slot: slot, Typ: dt}, Src1: value})
	return value
}

var binOps = map[string]Op{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv,
	"==": OpCmpEq, "!=": OpCmpNe, "<": OpCmpLt, "<=": OpCmpLe, ">": OpCmpGt, ">=": OpCmpGe,
	"and": OpAnd, "or": OpOr,
}

var floatBinOps = map[string]Op{
	"+": OpFAdd, "-": OpFSub, "*": OpFMul, "/": OpFDiv,
	"==": OpFCmpEq, "!=": OpFCmpNe, "<": OpFCmpLt, "<=": OpFCmpLe, ">": OpFCmpGt, ">=": OpFCmpGe,
}

// lowerBinary picks the float-typed op table whenever the left operand is
// float-valued; sema's type checker already guarantees both operands of a
// binary agree on type, so checking just the left operand is enough.
func (lw *lowerer) lowerBinary(n *ir.Binary) Value {
	left := lw.lower(n.Left)
	right := lw.lower(n.Right)
	ops := binOps
	if left.Typ == DataFloat {
		ops = floatBinOps
	}
	op, ok := ops[n.Op]
	if !ok {
		op = OpAdd
	}
	dst := lw.newTemp(dataTypeOf(n.Typ()))
	lw.emit(Instr{Op: op, Dst: dst, Src1: left, Src2: right})
	return dst
}

func (lw *lowerer) lowerUnary(n *ir.Unary) Value {
	value := lw.lower(n.Value)
	op := OpNeg
	switch {
	case n.Op == "!":
		op = OpNot
	case value.Typ == DataFloat:
		op = OpFNeg
	}
	dst := lw.newTemp(dataTypeOf(n.Typ()))
	lw.emit(Instr{Op: op, Dst: dst, Src1: value})
	return dst
}

func (lw *lowerer) lowerBlock(n *ir.Block) Value {
	var last Value
	if len(n.Exprs) == 0 {
		last = lw.newTemp(DataInt)
		lw.emit(Instr{Op: OpConstInt, Dst: last, ConstInt: 0})
		return last
	}
	for _, sub := range n.Exprs {
		last = lw.lower(sub)
	}
	return last
}

// lowerIf emits: evaluate cond; jump-if-zero to elseBlk; then-block; jump
// to endBlk; elseBlk; endBlk. When Phi is true, both branches store their
// value into a shared result slot before falling through to endBlk.
func (lw *lowerer) lowerIf(n *ir.If) Value {
	cond := lw.lower(n.Cond)

	var resultSlot int
	if n.Phi {
		resultSlot = lw.nextSlot
		lw.nextSlot++
	}

	elseIdx, elseBlk := lw.newBlock()
	lw.emit(Instr{Op: OpJumpIfZero, Src1: cond, Target: elseIdx, Dst: noValue()})

	thenVal := lw.lower(n.Then)
	if n.Phi {
		lw.emit(Instr{Op: OpStore, Dst: Value{Slot: resultSlot, Typ: dataTypeOf(n.Typ())}, Src1: thenVal})
	}
	endIdx, endBlk := lw.newBlock()
	lw.emit(Instr{Op: OpJump, Target: endIdx, Dst: noValue()})

	lw.cur = elseBlk
	if n.Else != nil {
		elseVal := lw.lower(n.Else)
		if n.Phi {
			lw.emit(Instr{Op: OpStore, Dst: Value{Slot: resultSlot, Typ: dataTypeOf(n.Typ())}, Src1: elseVal})
		}
	}
	lw.emit(Instr{Op: OpJump, Target: endIdx, Dst: noValue()})

	lw.cur = endBlk
	if n.Phi {
		dst := lw.newTemp(dataTypeOf(n.Typ()))
		lw.emit(Instr{Op: OpLoad, Dst: dst, Src1: Value{Slot: resultSlot, Typ: dataTypeOf(n.Typ())}})
		return dst
	}
	dst := lw.newTemp(DataInt)
	lw.emit(Instr{Op: OpConstInt, Dst: dst, ConstInt: 0})
	return dst
}

// lowerWhile emits: a jump to headBlk; headBlk (cond, jump-if-zero to
// endBlk, then the body, then a jump back to headBlk); endBlk. The body has
// no block of its own. A While's value is always Void, encoded here as a
// zero constant.
func (lw *lowerer) lowerWhile(n *ir.While) Value {
	headIdx, headBlk := lw.newBlock()
	lw.emit(Instr{Op: OpJump, Target: headIdx, Dst: noValue()})
	lw.cur = headBlk

	cond := lw.lower(n.Cond)
	endIdx, endBlk := lw.newBlock()
	lw.emit(Instr{Op: OpJumpIfZero, Src1: cond, Target: endIdx, Dst: noValue()})

	lw.lower(n.Body)
	lw.emit(Instr{Op: OpJump, Target: headIdx, Dst: noValue()})

	lw.cur = endBlk
	dst := lw.newTemp(DataInt)
	lw.emit(Instr{Op: OpConstInt, Dst: dst, ConstInt: 0})
	return dst
}

func (lw *lowerer) lowerCall(n *ir.Call) Value {
	var ref ir.FuncRef
	if c, ok := n.Callee.(*ir.Constant); ok && c.Kind == ir.ConstFunction {
		ref = c.Func
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = lw.lower(a)
	}
	dst := lw.newTemp(dataTypeOf(n.Typ()))
	lw.emit(Instr{Op: OpCall, Dst: dst, Func: ref, Args: args})
	return dst
}
