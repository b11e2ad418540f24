// Package cmake wraps the cmake configure/build/test workflow.
package cmake

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake drives CMake-based builds. Each invocation runs the cmake binary
// with an explicit argument vector, inherits the caller's environment with
// CLICOLOR_FORCE=1 added, and relays the child's merged stdout/stderr to
// the configured output line by line.
type CMake struct {
	sourceDir string
	buildDir  string
	generator string
	buildType string
	defines   map[string]defineValue
	out       io.Writer
}

// New returns a ready-to-use CMake for the given source and build dirs.
func New(sourceDir, buildDir string) *CMake {
	return &CMake{
		sourceDir: sourceDir,
		buildDir:  buildDir,
		defines:   make(map[string]defineValue),
	}
}

// Source overrides the source directory.
func (c *CMake) Source(dir string) { c.sourceDir = dir }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// SetOutput redirects the relayed child output. Defaults to os.Stdout.
func (c *CMake) SetOutput(w io.Writer) { c.out = w }

// ConfigureArgs returns the argument vector Configure will pass to cmake.
// Extra args are appended at the end.
func (c *CMake) ConfigureArgs(extra ...string) []string {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	args = append(args, c.definesArgs()...)
	return append(args, extra...)
}

// BuildArgs returns the argument vector Build will pass to cmake.
func (c *CMake) BuildArgs(extra ...string) []string {
	return append([]string{"--build", c.buildDir}, extra...)
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
func (c *CMake) Configure(ctx context.Context, extra ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	return c.run(ctx, "cmake", c.ConfigureArgs(extra...))
}

// Build runs "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(ctx context.Context, extra ...string) error {
	return c.run(ctx, "cmake", c.BuildArgs(extra...))
}

// CTest runs the compiled test suite via "ctest --test-dir <build>".
func (c *CMake) CTest(ctx context.Context, extra ...string) error {
	args := append([]string{"--test-dir", c.buildDir}, extra...)
	return c.run(ctx, "ctest", args)
}

// Version reports the version of the cmake binary on PATH, e.g. "3.28.3".
func Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "cmake", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("cmake --version: %w", err)
	}
	return parseVersion(string(out))
}

func parseVersion(out string) (string, error) {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "cmake" || fields[1] != "version" {
		return "", fmt.Errorf("unexpected cmake version output %q", line)
	}
	return fields[2], nil
}

// run executes bin with args, merging the child's stdout and stderr into a
// single pipe that is relayed line by line. A non-zero exit is returned as
// an error wrapping *exec.ExitError.
func (c *CMake) run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), "CLICOLOR_FORCE=1")

	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return fmt.Errorf("%s: %w", bin, err)
	}
	// The child holds its own copy of the write end; close ours so the
	// read side sees EOF when the child exits.
	pw.Close()

	relayErr := relay(pr, c.output())
	pr.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w", bin, err)
	}
	return relayErr
}

// relay copies r to w one line at a time, stripping the trailing newline
// and preserving order.
func relay(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		fmt.Fprintln(w, sc.Text())
	}
	return sc.Err()
}

func (c *CMake) output() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}
