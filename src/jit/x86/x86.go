// Package x86 encodes lowered lir.Functions directly into x86-64 machine
// code bytes. There is no intermediate textual assembly and no external
// assembler invocation: Encode emits opcode bytes straight into a byte
// slice it returns for the linker to copy into executable memory, following the byte-literal style of the memcp
// JIT reference (other_examples/64f2f987_launix-de-memcp__scm-jit_amd64.go.go)
// rather than the teacher's arm/riscv backends, which both print textual
// assembly for an external toolchain (spec.md §4.6 requires this JIT to
// produce directly executable code, including under a freestanding/kernel
// target with no assembler installed).
//
// Register discipline follows the falcon reference file
// (other_examples/17cac395_y1yang0-falcon__src-compile-codegen-asm_x86.go.go):
// no register allocator. Every lir.Value lives in its own stack slot;
// RAX and RCX (XMM0/XMM1 for floats) are the only two scratch registers,
// reloaded from and spilled to their slot around every instruction.
package x86

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/yacari-lang/yacari/src/ir"
	"github.com/yacari-lang/yacari/src/jit/lir"
)

// reg is a general-purpose x86-64 register encoding (low 3 bits of ModRM,
// REX.B/R extends to r8-r15).
type reg int

const (
	rax reg = 0
	rcx reg = 1
	rdx reg = 2
	rbx reg = 3
	rsp reg = 4
	rbp reg = 5
	rsi reg = 6
	rdi reg = 7
	r8  reg = 8
	r9  reg = 9
)

// argRegs is the System V AMD64 integer argument-passing order, used both
// to read this function's own incoming parameters and to place outgoing
// call arguments.
var argRegs = []reg{rdi, rsi, rdx, rcx, r8, r9}

// xmm0/xmm1 are the two scratch SSE2 registers used for scalar-double
// (f64) arithmetic, mirroring the rax/rcx scratch-pair discipline used
// for the integer path: every lir.Value is reloaded from its stack slot
// and every result is spilled back out, never kept live across
// instructions. The numeric value doubles as the rax/rcx GPR encoding,
// which is harmless: the opcode's mandatory prefix (F2/66) and escape
// byte (0F), not the ModRM index, determine which register file a
// ModRM.reg/rm field addresses.
const (
	xmm0 reg = rax
	xmm1 reg = rcx
)

// Encoder accumulates machine code bytes for one lir.Function. Labels are
// resolved in a second pass: every jump is emitted with a placeholder
// 32-bit displacement, patched once every block's start offset is known.
type Encoder struct {
	code       []byte
	blockStart []int   // blockStart[i] = byte offset Block i begins at, filled as blocks are emitted
	fixups     []fixup // pending jump displacements to patch
	frameSize  int
	Calls      []CallSite // call sites the linker must patch with a resolved address
}

type fixup struct {
	patchAt int // offset of the 4-byte displacement to patch
	target  int // block index the jump targets
}

// CallSite records where Encode left an 8-byte zero placeholder for a
// callee address, for src/jit's linker to overwrite once every function's
// final memory address is known.
type CallSite struct {
	Offset int // byte offset of the 8-byte immediate within Result
	Func   ir.FuncRef
}

// Result is the output of Encode: the function's machine code plus the
// call sites the linker must still patch.
type Result struct {
	Code  []byte
	Calls []CallSite
}

// Encode lowers fn to a standalone function body: prologue, the encoded
// blocks in order, epilogue-on-return, ready to be copied into executable
// memory and called with the System V AMD64 calling convention.
func Encode(fn *lir.Function) Result {
	e := &Encoder{blockStart: make([]int, len(fn.Blocks))}
	e.frameSize = alignStack((fn.NumSlots + 1) * 8)

	e.prologue()
	for i, p := range fn.Params {
		if i >= len(argRegs) {
			break // beyond the register-passed argument count; spec.md caps practical arity well under this
		}
		e.storeSlot(p.Slot, argRegs[i])
	}

	for i, b := range fn.Blocks {
		e.blockStart[i] = len(e.code)
		for _, instr := range b.Instrs {
			e.emitInstr(instr)
		}
	}

	for _, fx := range e.fixups {
		target := int32(e.blockStart[fx.target] - (fx.patchAt + 4))
		binary.LittleEndian.PutUint32(e.code[fx.patchAt:], uint32(target))
	}
	return Result{Code: e.code, Calls: e.Calls}
}

func alignStack(n int) int {
	return (n + 15) &^ 15
}

func (e *Encoder) b(bs ...byte) { e.code = append(e.code, bs...) }

func (e *Encoder) imm32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	e.code = append(e.code, buf[:]...)
}

func (e *Encoder) imm64(v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	e.code = append(e.code, buf[:]...)
}

// prologue: push rbp; mov rbp, rsp; sub rsp, frameSize.
func (e *Encoder) prologue() {
	e.b(0x55)                   // push rbp
	e.b(0x48, 0x89, 0xe5)       // mov rbp, rsp
	e.b(0x48, 0x81, 0xec)       // sub rsp, imm32
	e.imm32(int32(e.frameSize))
}

// epilogue: mov rsp, rbp; pop rbp; ret.
func (e *Encoder) epilogue() {
	e.b(0x48, 0x89, 0xec) // mov rsp, rbp
	e.b(0x5d)             // pop rbp
	e.b(0xc3)             // ret
}

// slotOffset returns the rbp-relative displacement of stack slot i.
func slotOffset(i int) int32 { return int32(-8 * (i + 1)) }

// rexW returns the REX prefix for a 64-bit operation where r is the
// ModRM.reg field; REX.R is set when r names one of r8-r15.
func rexW(r reg) byte {
	rex := byte(0x48)
	if r >= 8 {
		rex |= 0x04 // REX.R
	}
	return rex
}

// loadSlot: mov r, [rbp+disp].
func (e *Encoder) loadSlot(r reg, slot int) {
	e.b(rexW(r), 0x8b, modrmDisp32(r, rbp))
	e.imm32(slotOffset(slot))
}

// storeSlot: mov [rbp+disp], r.
func (e *Encoder) storeSlot(slot int, r reg) {
	e.b(rexW(r), 0x89, modrmDisp32(r, rbp))
	e.imm32(slotOffset(slot))
}

func modrmDisp32(r, base reg) byte {
	return 0x80 | byte(r&7)<<3 | byte(base&7)
}

// xmmModRM builds a register-direct ModRM byte (mod=11) addressing two
// xmm registers, dst in the reg field and src in the rm field — the
// operand order Intel syntax uses for two-operand SSE2 instructions
// (e.g. ADDSD dst, src computes dst += src).
func xmmModRM(dst, src reg) byte {
	return 0xc0 | byte(dst&7)<<3 | byte(src&7)
}

// loadSlotF: movsd xmm_r, [rbp+disp].
func (e *Encoder) loadSlotF(r reg, slot int) {
	e.b(0xf2, 0x0f, 0x10, modrmDisp32(r, rbp))
	e.imm32(slotOffset(slot))
}

// storeSlotF: movsd [rbp+disp], xmm_r.
func (e *Encoder) storeSlotF(slot int, r reg) {
	e.b(0xf2, 0x0f, 0x11, modrmDisp32(r, rbp))
	e.imm32(slotOffset(slot))
}

func (e *Encoder) emitInstr(in lir.Instr) {
	switch in.Op {
	case lir.OpConstInt:
		e.b(0x48, 0xb8) // mov rax, imm64
		e.imm64(in.ConstInt)
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpConstFloat:
		// Floats are materialized through the integer unit as their raw
		// bit pattern and stored to the slot; float consumers load that
		// slot with movsd. There is no RIP-relative constant pool.
		bits := int64(f64bits(in.ConstF))
		e.b(0x48, 0xb8)
		e.imm64(bits)
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpLoad:
		e.loadSlot(rax, in.Src1.Slot)
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpStore:
		e.loadSlot(rax, in.Src1.Slot)
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpAdd, lir.OpSub, lir.OpMul:
		e.loadSlot(rax, in.Src1.Slot)
		e.loadSlot(rcx, in.Src2.Slot)
		switch in.Op {
		case lir.OpAdd:
			e.b(0x48, 0x01, 0xc8) // add rax, rcx
		case lir.OpSub:
			e.b(0x48, 0x29, 0xc8) // sub rax, rcx
		case lir.OpMul:
			e.b(0x48, 0x0f, 0xaf, 0xc1) // imul rax, rcx
		}
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpDiv:
		e.loadSlot(rax, in.Src1.Slot)
		e.b(0x48, 0x99) // cqo: sign-extend rax into rdx:rax
		e.loadSlot(rcx, in.Src2.Slot)
		e.b(0x48, 0xf7, 0xf9) // idiv rcx
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpNeg:
		e.loadSlot(rax, in.Src1.Slot)
		e.b(0x48, 0xf7, 0xd8) // neg rax
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpNot:
		e.loadSlot(rax, in.Src1.Slot)
		e.b(0x48, 0x83, 0xf0, 0x01) // xor rax, 1
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpFAdd, lir.OpFSub, lir.OpFMul, lir.OpFDiv:
		e.loadSlotF(xmm0, in.Src1.Slot)
		e.loadSlotF(xmm1, in.Src2.Slot)
		switch in.Op {
		case lir.OpFAdd:
			e.b(0xf2, 0x0f, 0x58, xmmModRM(xmm0, xmm1)) // addsd xmm0, xmm1
		case lir.OpFSub:
			e.b(0xf2, 0x0f, 0x5c, xmmModRM(xmm0, xmm1)) // subsd xmm0, xmm1
		case lir.OpFMul:
			e.b(0xf2, 0x0f, 0x59, xmmModRM(xmm0, xmm1)) // mulsd xmm0, xmm1
		case lir.OpFDiv:
			e.b(0xf2, 0x0f, 0x5e, xmmModRM(xmm0, xmm1)) // divsd xmm0, xmm1
		}
		e.storeSlotF(in.Dst.Slot, xmm0)
	case lir.OpFNeg:
		// No immediate float-negate instruction: flip the sign by
		// subtracting from a zeroed register, 0.0 - x == -x for every
		// finite double (spec.md's f64 has no signed-zero/NaN corner
		// cases to preserve).
		e.b(0x66, 0x0f, 0xef, xmmModRM(xmm1, xmm1)) // pxor xmm1, xmm1
		e.loadSlotF(xmm0, in.Src1.Slot)
		e.b(0xf2, 0x0f, 0x5c, xmmModRM(xmm1, xmm0)) // subsd xmm1, xmm0
		e.storeSlotF(in.Dst.Slot, xmm1)
	case lir.OpCmpEq, lir.OpCmpNe, lir.OpCmpLt, lir.OpCmpLe, lir.OpCmpGt, lir.OpCmpGe:
		e.emitCompare(in)
	case lir.OpFCmpEq, lir.OpFCmpNe, lir.OpFCmpLt, lir.OpFCmpLe, lir.OpFCmpGt, lir.OpFCmpGe:
		e.emitCompareFloat(in)
	case lir.OpAnd:
		e.loadSlot(rax, in.Src1.Slot)
		e.loadSlot(rcx, in.Src2.Slot)
		e.b(0x48, 0x21, 0xc8) // and rax, rcx
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpOr:
		e.loadSlot(rax, in.Src1.Slot)
		e.loadSlot(rcx, in.Src2.Slot)
		e.b(0x48, 0x09, 0xc8) // or rax, rcx
		e.storeSlot(in.Dst.Slot, rax)
	case lir.OpJump:
		e.b(0xe9) // jmp rel32
		e.fixups = append(e.fixups, fixup{patchAt: len(e.code), target: in.Target})
		e.imm32(0)
	case lir.OpJumpIfZero:
		e.loadSlot(rax, in.Src1.Slot)
		e.b(0x48, 0x85, 0xc0) // test rax, rax
		e.b(0x0f, 0x84)       // jz rel32
		e.fixups = append(e.fixups, fixup{patchAt: len(e.code), target: in.Target})
		e.imm32(0)
	case lir.OpLabel:
		// no bytes; block offsets are recorded by Encode before the loop
	case lir.OpCall:
		e.emitCall(in)
	case lir.OpReturn:
		if in.Src1.Slot >= 0 {
			// The System V / host C ABI returns a double in XMM0, not
			// RAX (spec.md §6.4).
			if in.Src1.Typ == lir.DataFloat {
				e.loadSlotF(xmm0, in.Src1.Slot)
			} else {
				e.loadSlot(rax, in.Src1.Slot)
			}
		}
		e.epilogue()
	default:
		panic(fmt.Sprintf("x86: unhandled lir op %d", in.Op))
	}
}

// emitCompare: cmp rax, rcx; setcc al; movzx rax, al.
func (e *Encoder) emitCompare(in lir.Instr) {
	e.loadSlot(rax, in.Src1.Slot)
	e.loadSlot(rcx, in.Src2.Slot)
	e.b(0x48, 0x39, 0xc8) // cmp rax, rcx
	var setcc byte
	switch in.Op {
	case lir.OpCmpEq:
		setcc = 0x94 // sete
	case lir.OpCmpNe:
		setcc = 0x95 // setne
	case lir.OpCmpLt:
		setcc = 0x9c // setl
	case lir.OpCmpLe:
		setcc = 0x9e // setle
	case lir.OpCmpGt:
		setcc = 0x9f // setg
	case lir.OpCmpGe:
		setcc = 0x9d // setge
	}
	e.b(0x0f, setcc, 0xc0) // setcc al
	e.b(0x48, 0x0f, 0xb6, 0xc0) // movzx rax, al
	e.storeSlot(in.Dst.Slot, rax)
}

// emitCompareFloat: ucomisd xmm0, xmm1; setcc al; movzx rax, al. ucomisd
// sets CF/ZF/PF from an unsigned-style comparison, so the relational
// ops map onto the unsigned set/jump condition codes (setb/setbe/
// seta/setae) rather than the signed ones emitCompare uses.
func (e *Encoder) emitCompareFloat(in lir.Instr) {
	e.loadSlotF(xmm0, in.Src1.Slot)
	e.loadSlotF(xmm1, in.Src2.Slot)
	e.b(0x66, 0x0f, 0x2e, xmmModRM(xmm0, xmm1)) // ucomisd xmm0, xmm1
	var setcc byte
	switch in.Op {
	case lir.OpFCmpEq:
		setcc = 0x94 // sete
	case lir.OpFCmpNe:
		setcc = 0x95 // setne
	case lir.OpFCmpLt:
		setcc = 0x92 // setb
	case lir.OpFCmpLe:
		setcc = 0x96 // setbe
	case lir.OpFCmpGt:
		setcc = 0x97 // seta
	case lir.OpFCmpGe:
		setcc = 0x93 // setae
	}
	e.b(0x0f, setcc, 0xc0) // setcc al
	e.b(0x48, 0x0f, 0xb6, 0xc0) // movzx rax, al
	e.storeSlot(in.Dst.Slot, rax)
}

// emitCall spills the already-computed argument slots into the System V
// integer argument registers, calls through an absolute 64-bit pointer
// patched in by the linker (src/jit), and stores the result from
// whichever register the callee's return type lives in (spec.md §6.4:
// a double result comes back in XMM0, everything else in RAX).
//
// Outgoing float-typed arguments are not yet placed in the XMM0-7
// argument registers the System V ABI expects for them; only integer/
// bool/pointer-shaped arguments route correctly today. See DESIGN.md.
func (e *Encoder) emitCall(in lir.Instr) {
	for i, a := range in.Args {
		if i >= len(argRegs) {
			break
		}
		e.loadSlot(argRegs[i], a.Slot)
	}
	e.b(0x48, 0xb8) // mov rax, imm64 (callee address; patched by the linker)
	patchAt := len(e.code)
	e.imm64(0)
	e.Calls = append(e.Calls, CallSite{Offset: patchAt, Func: in.Func})
	e.b(0xff, 0xd0) // call rax
	if in.Dst.Typ == lir.DataFloat {
		e.storeSlotF(in.Dst.Slot, xmm0)
	} else {
		e.storeSlot(in.Dst.Slot, rax)
	}
}

func f64bits(f float64) uint64 {
	return math.Float64bits(f)
}
