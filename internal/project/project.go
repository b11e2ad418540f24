// Package project declares the optional components of the allocators build
// and how the CLI toggles them. The Features table is the single source of
// truth: flag registration and definition assembly are both derived from it.
package project

// Feature is one optional build component, toggled through a CMake cache
// definition. Flag names the boolean CLI flag that flips the feature away
// from its Default; Define is the definition name without the project
// prefix.
type Feature struct {
	Name    string
	Flag    string
	Define  string
	Default bool
	Help    string
}

// Features lists the optional components of the allocators library.
// Components that default to on expose a "no-" flag, components that
// default to off expose an enabling flag.
var Features = []Feature{
	{
		Name:    "diagnostics",
		Flag:    "enable-diagnostics",
		Define:  "ENABLE_DIAGNOSTICS",
		Default: false,
		Help:    "Include the address sanitizer and static analyzer flags in the build.",
	},
	{
		Name:    "tests",
		Flag:    "no-tests",
		Define:  "BUILD_TESTS",
		Default: true,
		Help:    "Disable compilation of the tests.",
	},
	{
		Name:    "benchmarks",
		Flag:    "no-benchmarks",
		Define:  "BUILD_BENCHMARKS",
		Default: true,
		Help:    "Disable compilation of the benchmarks.",
	},
	{
		Name:    "example",
		Flag:    "include-example",
		Define:  "BUILD_EXAMPLE",
		Default: false,
		Help:    "Include the example in the build.",
	},
}

// Enabled reports the effective state of the feature given whether its
// flag was passed. Passing the flag always flips the default.
func (f Feature) Enabled(flagSet bool) bool {
	return f.Default != flagSet
}

// Options is the option set parsed from one invocation, read-only after
// parse.
type Options struct {
	Configure bool
	Release   bool
	Threads   int
	// Enabled maps feature name to its effective state.
	Enabled map[string]bool
}

// BuildType returns the CMAKE_BUILD_TYPE value for the run.
func (o Options) BuildType() string {
	if o.Release {
		return "Release"
	}
	return "Debug"
}
