package hostfs

import (
	"os"
	"path/filepath"
	"testing"

	yfs "github.com/yacari-lang/yacari/src/fs"
	"github.com/yacari-lang/yacari/src/intern"
)

func writeFile(t *testing.T, dir, rel, contents string) {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkDirectoryFindsYacFilesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yac", "fun main() -> i64 { 0 }")
	writeFile(t, dir, "a.yac", "class Foo { val x: i64 }")
	writeFile(t, dir, "notes.txt", "ignore me")

	o := New(intern.NewStore())
	var got []yfs.File
	if err := o.WalkDirectory(dir, func(f yfs.File) { got = append(got, f) }); err != nil {
		t.Fatalf("WalkDirectory: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 .yac files, got %d: %+v", len(got), got)
	}
	if got[0].Path[0].String() != "a" || got[1].Path[0].String() != "b" {
		t.Fatalf("expected lexical order a, b; got %q, %q", got[0].Path[0].String(), got[1].Path[0].String())
	}
}

func TestWalkDirectoryNestedPathComponents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("pkg", "util.yac"), "fun helper() -> i64 { 1 }")

	o := New(intern.NewStore())
	var got []yfs.File
	if err := o.WalkDirectory(dir, func(f yfs.File) { got = append(got, f) }); err != nil {
		t.Fatalf("WalkDirectory: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 file, got %d", len(got))
	}
	if len(got[0].Path) != 2 || got[0].Path[0].String() != "pkg" || got[0].Path[1].String() != "util" {
		t.Fatalf("expected path [pkg util], got %+v", got[0].Path)
	}
}

func TestWalkDirectorySkipsNonYacFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "not yacari source")

	o := New(intern.NewStore())
	var got []yfs.File
	if err := o.WalkDirectory(dir, func(f yfs.File) { got = append(got, f) }); err != nil {
		t.Fatalf("WalkDirectory: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no files, got %+v", got)
	}
}
