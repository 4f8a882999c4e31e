// Package fs defines the filesystem collaborator contract (spec.md §6.3):
// the embedding API depends only on this interface, never on os directly,
// so ExecutePath can be driven from an in-memory tree in tests and from a
// real directory via fs/hostfs in the CLI.
package fs

import "github.com/yacari-lang/yacari/src/intern"

// File is one discovered source unit: its logical module path (directory
// components plus file stem, pre-interned) and its raw text.
type File struct {
	Path     []intern.Name
	Contents string
}

// Walker discovers source files under a root path, in an
// implementation-defined but stable order, invoking cb once per file
// found.
type Walker interface {
	WalkDirectory(root string, cb func(File)) error
}
