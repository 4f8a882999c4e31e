// Command yacari is the CLI front end: it wires cliopts.Options into the
// yacari embedding API and prints diagnostics, following the teacher's
// own src/main.go structure (a small run(opt) driving parse/validate/
// codegen stages behind one flag struct) rather than introducing a
// cobra/urfave-style CLI framework.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/yacari-lang/yacari"
	"github.com/yacari-lang/yacari/src/cliopts"
	"github.com/yacari-lang/yacari/src/fs/hostfs"
	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/jit/freestandingmem"
	"github.com/yacari-lang/yacari/src/lexer"
	"github.com/yacari-lang/yacari/src/token"
)

func main() {
	opt, err := cliopts.ParseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(opt.Roots) == 0 {
		fmt.Fprintln(os.Stderr, "yacari: no source file or directory given")
		os.Exit(1)
	}

	if opt.TokenStream {
		for _, root := range opt.Roots {
			if err := printTokenStream(root); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		return
	}

	if opt.Freestanding {
		arena := make([]byte, 16<<20)
		yacari.SetMemoryManager(freestandingmem.New(arena, 4096))
	}

	st := intern.NewStore()
	result, err := yacari.ExecutePath[int64](hostfs.New(st), opt.Roots, nil)
	if err != nil {
		printDiagnostics(err)
		os.Exit(1)
	}
	if opt.Verbose {
		fmt.Printf("main returned %d\n", result)
	}
}

// printTokenStream reads a single source file and prints its tokens,
// mirroring the teacher's `-ts` flag (`frontend.TokenStream`) with a
// tabwriter-formatted column layout instead of a flat print loop.
func printTokenStream(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	st := intern.NewStore()
	l := lexer.New(string(b), st)
	go l.Run()

	w := tabwriter.NewWriter(os.Stdout, 4, 1, 1, ' ', 0)
	defer w.Flush()
	for {
		t := l.Next()
		fmt.Fprintf(w, "%d\t%s\t%q\n", t.Start, t.Kind, t.Lexeme.String())
		if t.Kind == token.Error {
			break
		}
	}
	return nil
}

// printDiagnostics formats a compile/parse error returned by the
// embedding API, one diagnostic per line, the same tabular shape the
// teacher's util/io.go writer uses for its own buffered output.
func printDiagnostics(err error) {
	w := tabwriter.NewWriter(os.Stderr, 4, 1, 1, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, err.Error())
}
