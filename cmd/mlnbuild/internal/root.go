package internal

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/malunal-studios/mlnbuild/internal/config"
	"github.com/malunal-studios/mlnbuild/internal/project"
	"github.com/malunal-studios/mlnbuild/x/cmake"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

var (
	configureFlag bool
	releaseFlag   bool
	threadsFlag   int
	featureFlags  = map[string]*bool{}
)

var rootCmd = &cobra.Command{
	Use:   "mlnbuild",
	Short: "mlnbuild drives CMake builds of the malunal.allocators library",
	Long: `mlnbuild translates its options into CMake definitions, optionally
configures the build directory and then builds it, relaying the cmake
output as it arrives. The wrapper's exit status reflects the first
failing cmake invocation.`,
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	fl := rootCmd.Flags()
	fl.BoolVarP(&configureFlag, "configure", "c", false, "Configure the project before building it.")
	fl.BoolVarP(&releaseFlag, "release", "r", false, "Build in Release mode instead of Debug mode.")
	fl.IntVarP(&threadsFlag, "threads", "t", 1, "Number of threads to use for the build.")
	for _, f := range project.Features {
		v := new(bool)
		featureFlags[f.Name] = v
		fl.BoolVar(v, f.Flag, false, f.Help)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}
	if err := loadDotEnv(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if cfg.CMakeMin != "" {
		ver, err := cmake.Version(ctx)
		if err != nil {
			return err
		}
		if semver.Compare("v"+ver, "v"+cfg.CMakeMin) < 0 {
			return fmt.Errorf("cmake %s is too old, need %s or newer", ver, cfg.CMakeMin)
		}
	}

	opts := parseOptions()
	c := driver(cfg, opts)
	if opts.Configure {
		if err := c.Configure(ctx); err != nil {
			return fmt.Errorf("configure failed: %w", err)
		}
	}
	if err := c.Build(ctx, "--", "-j"+strconv.Itoa(opts.Threads)); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

// parseOptions snapshots the flag values into the run's option set.
func parseOptions() project.Options {
	opts := project.Options{
		Configure: configureFlag,
		Release:   releaseFlag,
		Threads:   threadsFlag,
		Enabled:   map[string]bool{},
	}
	for _, f := range project.Features {
		opts.Enabled[f.Name] = f.Enabled(*featureFlags[f.Name])
	}
	return opts
}

// driver assembles the cmake invocation for the parsed options. Each
// enabled feature contributes exactly one ON definition; disabled
// features contribute nothing.
func driver(cfg *config.Config, opts project.Options) *cmake.CMake {
	c := cmake.New(cfg.SourceDir, cfg.BuildDir)
	c.Generator(cfg.Generator)
	c.BuildType(opts.BuildType())
	for _, f := range project.Features {
		if opts.Enabled[f.Name] {
			c.DefineBool(cfg.Prefix+"_"+f.Define, true)
		}
	}
	for k, v := range cfg.Defines {
		c.Define(k, v)
	}
	return c
}

// loadDotEnv loads a .env file from the working directory into the process
// environment so child invocations inherit it. No file, no effect.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
