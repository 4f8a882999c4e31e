package jit

import (
	"encoding/binary"
	"unsafe"
)

// addressOf returns the runtime address of a JIT-allocated buffer's first
// byte, to hand to a callee's call-site patch or to cast into a callable
// Go function value at the embedding-API boundary.
func addressOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// patchAddr overwrites the 8-byte little-endian immediate at offset off
// within mem with addr, matching the `mov reg, imm64` placeholder x86.Encode
// leaves at every call site.
func patchAddr(mem []byte, off int, addr uintptr) {
	binary.LittleEndian.PutUint64(mem[off:], uint64(addr))
}
