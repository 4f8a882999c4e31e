// Package cliopts hand-rolls command-line flag parsing for the yacari
// CLI driver, adapted from the teacher's util/args.go manual os.Args
// scan — no third-party CLI framework, since the teacher itself
// hand-rolls this and no example repo in the corpus supplies its CLI
// flags to a toolchain of this shape (see DESIGN.md).
package cliopts

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Options holds the parsed command line for the yacari CLI.
type Options struct {
	Roots       []string // source file or directory paths to compile
	TokenStream bool      // -ts: print the token stream and exit
	Verbose     bool      // -vb: print main's return value to stdout
	Freestanding bool     // -freestanding: target the freestanding memory manager
}

const appVersion = "yacari 1.0"

// ParseArgs parses os.Args[1:] into Options, mirroring util/args.go's
// manual switch-on-flag scan rather than a flag.FlagSet, since every
// positional (non-flag) argument here is a source root, not a single
// trailing path.
func ParseArgs() (Options, error) {
	opt := Options{}
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-ts":
			opt.TokenStream = true
		case "-vb":
			opt.Verbose = true
		case "-freestanding":
			opt.Freestanding = true
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		default:
			if strings.HasPrefix(args[i], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i])
			}
			opt.Roots = append(opt.Roots, args[i])
		}
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "--h, --help")
	_, _ = fmt.Fprintln(w, "-ts\tPrint the token stream for each source file and exit.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print main's return value to stdout.")
	_, _ = fmt.Fprintln(w, "-freestanding\tTarget the freestanding memory manager instead of the hosted one.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits.")
	_, _ = fmt.Fprintln(w, "--v, --version")
	_ = w.Flush()
}
