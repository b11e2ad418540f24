package internal

import (
	"fmt"
	"os"

	"github.com/malunal-studios/mlnbuild/internal/config"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build directory",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}
	// Never remove the source tree through a misconfigured manifest.
	if cfg.BuildDir == "" || cfg.BuildDir == "." || cfg.BuildDir == cfg.SourceDir {
		return fmt.Errorf("refusing to clean %q", cfg.BuildDir)
	}
	if err := os.RemoveAll(cfg.BuildDir); err != nil {
		return fmt.Errorf("clean %s: %w", cfg.BuildDir, err)
	}
	return nil
}
