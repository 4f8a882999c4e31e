// Package jit translates compiled ir.Modules into directly executable
// machine code and links them together: lowering each ir.Function through
// src/jit/lir into three-address code, encoding it to x86-64 via
// src/jit/x86, placing the result in caller-supplied executable memory,
// and patching every call site once all functions have a final address.
// This replaces the teacher's approach entirely (arm/riscv backends
// emitting textual assembly for an external toolchain, or LLVM via the
// now-dropped tinygo.org/x/go-llvm dependency — see DESIGN.md) because
// spec.md §4.6 requires in-process machine code generation, including
// under a freestanding target where no external toolchain exists.
package jit

import (
	"fmt"

	"github.com/yacari-lang/yacari/src/ir"
	"github.com/yacari-lang/yacari/src/jit/lir"
	"github.com/yacari-lang/yacari/src/jit/x86"
)

// MemoryManager abstracts the host's executable-memory allocator, so the
// same linker works against hostmem.Manager (mmap/mprotect) and
// freestandingmem.Manager (static arena) without either package needing
// to import this one (spec.md §4.7's SetMemoryManager surface).
type MemoryManager interface {
	PageSize() int
	AllocPageAligned(n int) ([]byte, error)
	Dealloc(b []byte) error
	SetR(b []byte) error
	SetRW(b []byte) error
	SetRX(b []byte) error
}

// compiledFunc is one function's finished machine code and the call
// sites within it still awaiting another function's resolved address.
// mem is set once Link has copied code into its final executable
// allocation; code is kept only to size that allocation.
type compiledFunc struct {
	ref   ir.FuncRef
	code  []byte
	calls []x86.CallSite
	mem   []byte
}

// Linker lowers, encodes and links every function reachable from the
// supplied modules, then exposes their addresses by name for the
// embedding API (spec.md §4.7) to look up and invoke.
type Linker struct {
	mm        MemoryManager
	funcs     map[ir.FuncRef]*compiledFunc
	addr      map[ir.FuncRef]uintptr
	externSym map[string]uintptr // host-supplied symbol table, spec.md §6.4
}

// NewLinker creates a Linker that allocates executable memory through mm.
func NewLinker(mm MemoryManager) *Linker {
	return &Linker{
		mm:        mm,
		funcs:     make(map[ir.FuncRef]*compiledFunc),
		addr:      make(map[ir.FuncRef]uintptr),
		externSym: make(map[string]uintptr),
	}
}

// SetSymbol registers a host-provided address for an extern function
// name, satisfying spec.md §6.4's ABI contract for names no compiled
// module defines a body for.
func (l *Linker) SetSymbol(name string, addr uintptr) {
	l.externSym[name] = addr
}

// Link lowers and encodes every non-extern function across mods, places
// each in its own executable allocation, and patches every internal call
// site to the callee's final address. A call to an extern function with
// no host symbol makes Link return an "unresolved symbol" error.
func (l *Linker) Link(mods []*ir.Module) error {
	for _, m := range mods {
		for i, fn := range m.Functions {
			if fn.Extern {
				continue
			}
			ref := ir.FuncRef{Module: m.Handle, Index: i}
			lowered := lir.Lower(fn)
			res := x86.Encode(lowered)
			l.funcs[ref] = &compiledFunc{ref: ref, code: res.Code, calls: res.Calls}
		}
	}

	for ref, cf := range l.funcs {
		mem, err := l.mm.AllocPageAligned(len(cf.code))
		if err != nil {
			return fmt.Errorf("jit: allocate code for %s: %w", ref.Function().Name.String(), err)
		}
		copy(mem, cf.code)
		cf.mem = mem
		l.addr[ref] = addressOf(mem)
	}

	return l.patchCalls()
}

// patchCalls rewrites every call site's 8-byte immediate to the callee's
// final address, falling back to the host symbol table for extern
// functions (spec.md §8 scenario 7: any compiled module's host-supplied
// symbol satisfies an extern declared in any module, since the grammar
// has no module-qualifier syntax to disambiguate).
func (l *Linker) patchCalls() error {
	for ref, cf := range l.funcs {
		for _, cs := range cf.calls {
			target, err := l.resolve(cs.Func)
			if err != nil {
				return err
			}
			patchAddr(cf.mem, cs.Offset, target)
		}
		if err := l.mm.SetRX(cf.mem); err != nil {
			return fmt.Errorf("jit: finalize %s: %w", ref.Function().Name.String(), err)
		}
	}
	return nil
}

func (l *Linker) resolve(ref ir.FuncRef) (uintptr, error) {
	fn := ref.Function()
	if a, ok := l.addr[ref]; ok {
		return a, nil
	}
	if a, ok := l.externSym[fn.Name.String()]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("jit: unresolved symbol %q", fn.Name.String())
}

// FuncAddr returns the finalized address of a compiled function, for the
// embedding API to cast to a Go function pointer and call.
func (l *Linker) FuncAddr(ref ir.FuncRef) (uintptr, bool) {
	a, ok := l.addr[ref]
	return a, ok
}

// Lookup finds a module's function named main, honoring spec.md §9's
// "last module registered wins" rule for the ambiguous multiple-main
// case: mods is scanned in order and later matches overwrite earlier
// ones.
func Lookup(mods []*ir.Module, name string) (ir.FuncRef, bool) {
	var found ir.FuncRef
	ok := false
	for _, m := range mods {
		for i, fn := range m.Functions {
			if fn.Name.String() == name {
				found = ir.FuncRef{Module: m.Handle, Index: i}
				ok = true
			}
		}
	}
	return found, ok
}
