//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/gomdmark"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"fmt": Lint.Fmt,
	"fz":  Test.Fuzz,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/gomdmark with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building gomdmark...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/gomdmark")
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gomdmark")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Smoke)
}

// Clean removes build and coverage artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// smokeCases run the built binary and compare its stdout.
var smokeCases = []struct {
	args []string
	want string
}{
	{[]string{"type", "--format", "markdown", "a **b**"}, "a **b**"},
	{[]string{"paste", "--format", "html", "x __y__ z"}, "<p>x <strong>y</strong> z</p>"},
	{[]string{"paste", "--from", "html", "--format", "markdown", "<b style=\"font-weight:normal\">n</b>"}, "n"},
}

// Smoke builds the binary and checks a few end-to-end conversions.
func Smoke() error {
	st.Deps(Build)
	for _, c := range smokeCases {
		args := append([]string{"--config", os.DevNull}, c.args...)
		out, err := sh.Output("./"+binary, args...)
		if err != nil {
			return fmt.Errorf("gomdmark %s: %w", strings.Join(c.args, " "), err)
		}
		if strings.TrimSpace(out) != c.want {
			return fmt.Errorf("gomdmark %s: got %q, want %q", strings.Join(c.args, " "), out, c.want)
		}
	}
	fmt.Printf("✓ %d smoke checks passed\n", len(smokeCases))
	return nil
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "-race")
}

// Cover writes coverage.html from a fresh test run.
func (Test) Cover() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

var fuzzTargets = []struct{ pkg, name string }{
	{"./pkg/rules/", "FuzzHandlePaste"},
	{"./pkg/rules/", "FuzzHandleTextInput"},
	{"./pkg/fsutil/", "FuzzWriteAtomic"},
	{"./pkg/fsutil/", "FuzzReadFileChanged"},
}

// Fuzz runs each fuzz test for FUZZ_TIME (default 15s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZ_TIME"), "15s")
	for _, f := range fuzzTargets {
		fmt.Printf("Fuzzing %s%s for %s...\n", f.pkg, f.name, fuzzTime)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+f.name+"$", "-fuzztime="+fuzzTime, f.pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", f.name, err)
		}
	}
	return nil
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs the checks CI requires, failing on unformatted code or an
// untidy module.
func (CI) Gate() error {
	st.SerialDeps(CI.Fmt, Lint.Vet, CI.Lint, Build, Test.Default, Smoke, CI.ModTidy)
	fmt.Println("✓ CI gate passed")
	return nil
}

// Fmt fails when gofmt would change any file.
func (CI) Fmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Lint runs golangci-lint without fixes.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	if err := sh.RunV("git", "diff", "--exit-code", "--", "go.mod", "go.sum"); err != nil {
		return fmt.Errorf("go.mod or go.sum not tidy: %w", err)
	}
	return nil
}

// Default runs every benchmark.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Rules runs the rule engine benchmarks, the hot path for typing and pasting.
func (Bench) Rules() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./pkg/rules/", "./pkg/langdetect/")
}

func gotestsum(format string, testArgs ...string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	args := []string{"tool", "gotestsum", "-f", format, "--", "-p", nCores, "-parallel", nCores}
	args = append(args, testArgs...)
	return sh.RunV("go", append(args, "./...")...)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects version, commit and build date into cmd/gomdmark.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
