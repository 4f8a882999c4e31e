package cliopts

import (
	"os"
	"testing"
)

func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"yacari"}, args...)
	defer func() { os.Args = old }()
	fn()
}

func TestParseArgsCollectsRoots(t *testing.T) {
	withArgs(t, []string{"a.yac", "b.yac"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("ParseArgs: %v", err)
		}
		if len(opt.Roots) != 2 || opt.Roots[0] != "a.yac" || opt.Roots[1] != "b.yac" {
			t.Fatalf("unexpected roots: %+v", opt.Roots)
		}
	})
}

func TestParseArgsFlags(t *testing.T) {
	withArgs(t, []string{"-ts", "-vb", "-freestanding", "src/"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("ParseArgs: %v", err)
		}
		if !opt.TokenStream || !opt.Verbose || !opt.Freestanding {
			t.Fatalf("expected all three flags set, got %+v", opt)
		}
		if len(opt.Roots) != 1 || opt.Roots[0] != "src/" {
			t.Fatalf("expected one root 'src/', got %+v", opt.Roots)
		}
	})
}

func TestParseArgsUnknownFlagIsError(t *testing.T) {
	withArgs(t, []string{"-bogus"}, func() {
		if _, err := ParseArgs(); err == nil {
			t.Fatalf("expected an error for an unrecognized flag")
		}
	})
}

func TestParseArgsNoArgsIsEmptyRoots(t *testing.T) {
	withArgs(t, nil, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("ParseArgs: %v", err)
		}
		if len(opt.Roots) != 0 {
			t.Fatalf("expected no roots, got %+v", opt.Roots)
		}
	})
}
