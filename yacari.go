// Package yacari is the embedding API: compile and run yacari source
// through a single call, with no step of the pipeline exposed to the
// caller beyond a host symbol table and an optional memory manager
// override (spec.md §4.7/§6.2).
package yacari

import (
	"fmt"
	"unsafe"

	"github.com/yacari-lang/yacari/src/ast"
	"github.com/yacari-lang/yacari/src/fs"
	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/jit"
	"github.com/yacari-lang/yacari/src/jit/hostmem"
	"github.com/yacari-lang/yacari/src/parser"
	"github.com/yacari-lang/yacari/src/sema"
)

// SymbolTable maps extern function names to host-provided addresses,
// satisfying spec.md §6.4's ABI contract for declarations no compiled
// module supplies a body for.
type SymbolTable map[string]uintptr

// defaultMM is the package-level memory manager singleton, mirroring the
// teacher's own package-level `ir.Root`/`ir.Global` compiler-state
// globals (see DESIGN.md) rather than threading a manager argument
// through every call in this API.
var defaultMM jit.MemoryManager = hostmem.New()

// SetMemoryManager overrides the memory manager used by subsequent
// ExecuteModule/ExecutePath calls. The hosted mmap/mprotect manager
// (src/jit/hostmem) is the default; a freestanding target supplies its
// own (src/jit/freestandingmem) before calling this.
func SetMemoryManager(mgr jit.MemoryManager) {
	defaultMM = mgr
}

// CompileError wraps every diagnostic produced while compiling one or
// more modules; Error() renders each diagnostic on its own line.
type CompileError struct {
	Diagnostics []sema.Diagnostic
}

func (e *CompileError) Error() string {
	s := fmt.Sprintf("%d diagnostic(s):", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		s += "\n  " + d.Error()
	}
	return s
}

// ExecuteModule compiles a single source string as one module, links it,
// resolves extern declarations against symbols, calls its `main`
// function with no arguments, and returns its result as T. T must match
// main's declared return type's physical representation (bool/i64/f64).
func ExecuteModule[T any](src string, symbols SymbolTable) (T, error) {
	st := intern.NewStore()
	tree, pdiags := parser.Parse([]string{"module"}, src, st)
	if len(pdiags) != 0 {
		var zero T
		return zero, parseErr(pdiags)
	}
	return run[T]([]*ast.Module{tree}, st, symbols)
}

// ExecutePath walks every source file found under roots using fsw,
// compiles them together as sibling modules, links them, and calls the
// `main` function found in the last module that declares one (spec.md
// §9's documented last-write-wins rule for a multiple-main collision).
func ExecutePath[T any](fsw fs.Walker, roots []string, symbols SymbolTable) (T, error) {
	var zero T
	st := intern.NewStore()
	var trees []*ast.Module
	var pdiags []ast.Diagnostic
	for _, root := range roots {
		err := fsw.WalkDirectory(root, func(f fs.File) {
			path := make([]string, len(f.Path))
			for i, n := range f.Path {
				path[i] = n.String()
			}
			tree, ds := parser.Parse(path, f.Contents, st)
			trees = append(trees, tree)
			pdiags = append(pdiags, ds...)
		})
		if err != nil {
			return zero, fmt.Errorf("yacari: walking %s: %w", root, err)
		}
	}
	if len(pdiags) != 0 {
		return zero, parseErr(pdiags)
	}
	return run[T](trees, st, symbols)
}

func run[T any](trees []*ast.Module, st *intern.Store, symbols SymbolTable) (T, error) {
	var zero T
	mods, diags := sema.Compile(st, trees)
	var all []sema.Diagnostic
	for _, d := range diags {
		all = append(all, d...)
	}
	if len(all) != 0 {
		return zero, &CompileError{Diagnostics: all}
	}

	ref, ok := jit.Lookup(mods, "main")
	if !ok {
		return zero, fmt.Errorf("yacari: no main function found")
	}

	linker := jit.NewLinker(defaultMM)
	for name, addr := range symbols {
		linker.SetSymbol(name, addr)
	}
	if err := linker.Link(mods); err != nil {
		return zero, err
	}
	addr, ok := linker.FuncAddr(ref)
	if !ok {
		return zero, fmt.Errorf("yacari: main was not compiled")
	}

	f := callNoArgs[T](addr)
	return f(), nil
}

// callNoArgs reinterprets a raw code address as a callable Go function
// value taking no arguments and returning T, following the same trick
// the memcp JIT reference uses to turn a raw `*byte` into a callable
// `func(...Scmer) Scmer` (other_examples/33950481_launix-de-memcp__scm-jit.go.go):
// a Go func value is a pointer to a struct whose first word is the entry
// point, so a *uintptr holding the address can be reinterpreted directly
// as that func type when the function captures nothing.
func callNoArgs[T any](addr uintptr) func() T {
	fn := unsafe.Pointer(&addr)
	return *(*func() T)(unsafe.Pointer(&fn))
}

func parseErr(diags []ast.Diagnostic) error {
	s := fmt.Sprintf("%d parse diagnostic(s):", len(diags))
	for _, d := range diags {
		s += "\n  " + d.Error()
	}
	return fmt.Errorf("%s", s)
}
