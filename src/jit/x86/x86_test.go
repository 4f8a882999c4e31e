package x86

import (
	"encoding/binary"
	"testing"

	"github.com/yacari-lang/yacari/src/ir"
	"github.com/yacari-lang/yacari/src/jit/lir"
)

func TestEncodePrologueAndEpilogueShape(t *testing.T) {
	fn := &lir.Function{
		NumSlots: 1,
		Blocks: []*lir.Block{{Instrs: []lir.Instr{
			{Op: lir.OpReturn, Src1: lir.Value{Slot: -1}},
		}}},
	}
	res := Encode(fn)

	if res.Code[0] != 0x55 {
		t.Fatalf("expected push rbp (0x55) first, got 0x%02x", res.Code[0])
	}
	if res.Code[1] != 0x48 || res.Code[2] != 0x89 || res.Code[3] != 0xe5 {
		t.Fatalf("expected mov rbp,rsp at offset 1, got % x", res.Code[1:4])
	}
	if res.Code[4] != 0x48 || res.Code[5] != 0x81 || res.Code[6] != 0xec {
		t.Fatalf("expected sub rsp,imm32 at offset 4, got % x", res.Code[4:7])
	}
	last := res.Code[len(res.Code)-1]
	if last != 0xc3 {
		t.Fatalf("expected ret (0xc3) as final byte, got 0x%02x", last)
	}
}

func TestEncodeConstIntMovesImm64ThenStores(t *testing.T) {
	fn := &lir.Function{
		NumSlots: 1,
		Blocks: []*lir.Block{{Instrs: []lir.Instr{
			{Op: lir.OpConstInt, Dst: lir.Value{Slot: 0}, ConstInt: 42},
			{Op: lir.OpReturn, Src1: lir.Value{Slot: 0}},
		}}},
	}
	res := Encode(fn)

	// skip the 11-byte prologue; mov rax, imm64 is opcode 0x48 0xb8.
	body := res.Code[11:]
	if body[0] != 0x48 || body[1] != 0xb8 {
		t.Fatalf("expected mov rax,imm64 at start of body, got % x", body[:2])
	}
	v := int64(binary.LittleEndian.Uint64(body[2:10]))
	if v != 42 {
		t.Fatalf("expected immediate 42, got %d", v)
	}
}

func TestEncodeJumpFixupPatchesRelativeDisplacement(t *testing.T) {
	fn := &lir.Function{
		NumSlots: 0,
		Blocks: []*lir.Block{
			{Instrs: []lir.Instr{{Op: lir.OpJump, Target: 1}}},
			{Instrs: []lir.Instr{{Op: lir.OpReturn, Src1: lir.Value{Slot: -1}}}},
		},
	}
	res := Encode(fn)

	// jmp rel32 opcode 0xe9 immediately follows the 11-byte prologue.
	jmpOpcodeOff := 11
	if res.Code[jmpOpcodeOff] != 0xe9 {
		t.Fatalf("expected jmp opcode 0xe9 at %d, got 0x%02x", jmpOpcodeOff, res.Code[jmpOpcodeOff])
	}
	dispOff := jmpOpcodeOff + 1
	disp := int32(binary.LittleEndian.Uint32(res.Code[dispOff : dispOff+4]))
	wantTarget := dispOff + 4 + int(disp)
	// Block 1 (the return) begins right after the jmp instruction here.
	gotTarget := dispOff + 4
	if wantTarget != gotTarget {
		t.Fatalf("jmp displacement resolves to %d, want %d", wantTarget, gotTarget)
	}
}

func TestEncodeCallEmitsPlaceholderAndRecordsCallSite(t *testing.T) {
	ref := ir.FuncRef{}
	fn := &lir.Function{
		NumSlots: 1,
		Blocks: []*lir.Block{{Instrs: []lir.Instr{
			{Op: lir.OpCall, Dst: lir.Value{Slot: 0}, Func: ref, Args: nil},
			{Op: lir.OpReturn, Src1: lir.Value{Slot: 0}},
		}}},
	}
	res := Encode(fn)

	if len(res.Calls) != 1 {
		t.Fatalf("expected exactly one recorded call site, got %d", len(res.Calls))
	}
	cs := res.Calls[0]
	placeholder := res.Code[cs.Offset : cs.Offset+8]
	for _, b := range placeholder {
		if b != 0 {
			t.Fatalf("expected zeroed 8-byte placeholder at call site, got % x", placeholder)
		}
	}
	// call rax (0xff 0xd0) must immediately follow the 8-byte immediate.
	callOpcodeOff := cs.Offset + 8
	if res.Code[callOpcodeOff] != 0xff || res.Code[callOpcodeOff+1] != 0xd0 {
		t.Fatalf("expected call rax right after the patched immediate, got % x", res.Code[callOpcodeOff:callOpcodeOff+2])
	}
}

func TestEncodeCompareEmitsSetccAndMovzx(t *testing.T) {
	fn := &lir.Function{
		NumSlots: 2,
		Blocks: []*lir.Block{{Instrs: []lir.Instr{
			{Op: lir.OpCmpLt, Dst: lir.Value{Slot: 0}, Src1: lir.Value{Slot: 0}, Src2: lir.Value{Slot: 1}},
			{Op: lir.OpReturn, Src1: lir.Value{Slot: 0}},
		}}},
	}
	res := Encode(fn)

	var sawSetl, sawMovzx bool
	for i := 0; i+2 < len(res.Code); i++ {
		if res.Code[i] == 0x0f && res.Code[i+1] == 0x9c {
			sawSetl = true
		}
		if res.Code[i] == 0x48 && res.Code[i+1] == 0x0f && res.Code[i+2] == 0xb6 {
			sawMovzx = true
		}
	}
	if !sawSetl {
		t.Errorf("expected a setl (0x0f 0x9c) in the encoded body")
	}
	if !sawMovzx {
		t.Errorf("expected a movzx rax,al (0x48 0x0f 0xb6) in the encoded body")
	}
}

func TestEncodeFloatAddEmitsAddsd(t *testing.T) {
	fn := &lir.Function{
		NumSlots: 2,
		Blocks: []*lir.Block{{Instrs: []lir.Instr{
			{Op: lir.OpFAdd, Dst: lir.Value{Slot: 0, Typ: lir.DataFloat}, Src1: lir.Value{Slot: 0, Typ: lir.DataFloat}, Src2: lir.Value{Slot: 1, Typ: lir.DataFloat}},
			{Op: lir.OpReturn, Src1: lir.Value{Slot: 0, Typ: lir.DataFloat}},
		}}},
	}
	res := Encode(fn)

	var sawAddsd, sawMovsdReturn bool
	for i := 0; i+3 < len(res.Code); i++ {
		if res.Code[i] == 0xf2 && res.Code[i+1] == 0x0f && res.Code[i+2] == 0x58 {
			sawAddsd = true
		}
		if res.Code[i] == 0xf2 && res.Code[i+1] == 0x0f && res.Code[i+2] == 0x10 {
			sawMovsdReturn = true
		}
	}
	if !sawAddsd {
		t.Errorf("expected addsd (0xf2 0x0f 0x58) in the encoded body, got % x", res.Code)
	}
	if !sawMovsdReturn {
		t.Errorf("expected the float return to load via movsd (0xf2 0x0f 0x10) into xmm0, not the integer mov path, got % x", res.Code)
	}
	// The integer OpReturn path (mov rax, [rbp+disp]) must not also appear
	// for this float-typed return: opcode 0x8b is the integer mov-load.
	for i := 0; i+1 < len(res.Code); i++ {
		if res.Code[i] == 0x48 && res.Code[i+1] == 0x8b {
			t.Errorf("did not expect an integer mov-load (0x48 0x8b) for a float return, got % x", res.Code)
		}
	}
}

func TestEncodeFloatCompareUsesUnsignedSetcc(t *testing.T) {
	fn := &lir.Function{
		NumSlots: 2,
		Blocks: []*lir.Block{{Instrs: []lir.Instr{
			{Op: lir.OpFCmpLt, Dst: lir.Value{Slot: 0}, Src1: lir.Value{Slot: 0, Typ: lir.DataFloat}, Src2: lir.Value{Slot: 1, Typ: lir.DataFloat}},
			{Op: lir.OpReturn, Src1: lir.Value{Slot: 0}},
		}}},
	}
	res := Encode(fn)

	var sawUcomisd, sawSetb bool
	for i := 0; i+3 < len(res.Code); i++ {
		if res.Code[i] == 0x66 && res.Code[i+1] == 0x0f && res.Code[i+2] == 0x2e {
			sawUcomisd = true
		}
		if res.Code[i] == 0x0f && res.Code[i+1] == 0x92 {
			sawSetb = true
		}
	}
	if !sawUcomisd {
		t.Errorf("expected ucomisd (0x66 0x0f 0x2e) in the encoded body, got % x", res.Code)
	}
	if !sawSetb {
		t.Errorf("expected setb (0x0f 0x92), the unsigned condition code ucomisd requires for '<', got % x", res.Code)
	}
}
