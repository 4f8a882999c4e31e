package sema

import (
	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/ir"
)

// env is the expression compiler's scope stack: a stack of frames, each
// mapping a name to the VarStore it was declared with. This is the same
// shape as the teacher's util.Stack-driven GetEntry scope walk
// (ir/validate.go), generalized from a single flat symbol table to a
// proper push-on-block-entry/pop-on-block-exit stack, and specialized to
// the single-threaded compiler (spec.md §5): no mutex, since nothing else
// ever touches it concurrently.
type env struct {
	frames []map[intern.Name]*ir.VarStore
}

// push starts a new scope, used on function entry and block entry.
func (e *env) push() {
	e.frames = append(e.frames, make(map[intern.Name]*ir.VarStore))
}

// pop discards the innermost scope, used on block exit.
func (e *env) pop() {
	e.frames = e.frames[:len(e.frames)-1]
}

// bind declares name in the innermost scope.
func (e *env) bind(name intern.Name, v *ir.VarStore) {
	e.frames[len(e.frames)-1][name] = v
}

// lookup searches the scope stack top-down (innermost scope first),
// mirroring GetEntry's bottom-up stack walk over the teacher's
// bottom-is-oldest Stack.
func (e *env) lookup(name intern.Name) (*ir.VarStore, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}
