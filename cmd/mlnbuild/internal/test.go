package internal

import (
	"fmt"
	"os"

	"github.com/malunal-studios/mlnbuild/internal/config"
	"github.com/malunal-studios/mlnbuild/x/cmake"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the compiled test suite with ctest",
	Long:  `Test runs ctest against the build directory. Configure and build with tests enabled first.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.BuildDir); err != nil {
		return fmt.Errorf("build directory %s not found, run 'mlnbuild -c' first", cfg.BuildDir)
	}

	c := cmake.New(cfg.SourceDir, cfg.BuildDir)
	if err := c.CTest(cmd.Context(), "--output-on-failure"); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	return nil
}
