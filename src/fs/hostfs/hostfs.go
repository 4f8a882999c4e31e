// Package hostfs implements fs.Walker over a real host directory tree,
// using io/fs.WalkDir the way the teacher's util.ReadSource (util/io.go)
// uses plain os.ReadFile for its single-file `-src` flag — generalized
// here to a whole directory tree of `.yac` files, since spec.md's
// embedding surface compiles a set of modules rather than one file.
package hostfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yfs "github.com/yacari-lang/yacari/src/fs"
	"github.com/yacari-lang/yacari/src/intern"
)

// OS walks a real directory, yielding every ".yac" file it contains.
type OS struct {
	store *intern.Store
}

// New creates an OS walker that interns discovered module paths with st.
func New(st *intern.Store) *OS {
	return &OS{store: st}
}

// WalkDirectory visits every ".yac" file under root in lexical order, so
// that the "last module wins" `main` collision rule (spec.md §9) is
// reproducible across runs on the same tree.
func (o *OS) WalkDirectory(root string, cb func(yfs.File)) error {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".yac") {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(paths)

	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		cb(yfs.File{Path: o.modulePath(rel), Contents: string(b)})
	}
	return nil
}

// modulePath turns a "a/b/c.yac" relative path into interned path
// components ["a", "b", "c"].
func (o *OS) modulePath(rel string) []intern.Name {
	rel = strings.TrimSuffix(rel, ".yac")
	parts := strings.Split(filepath.ToSlash(rel), "/")
	out := make([]intern.Name, len(parts))
	for i, p := range parts {
		out[i] = o.store.Intern(p)
	}
	return out
}
