package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	hwtbuild "github.com/contriboss/hwtracer-build"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the dependency recipe's clean target",
	Long: `clean runs "make -f c_deps.mk clean" in the existing workspace. The
workspace directory itself is left in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		workspace := filepath.Join(config.OutDir, hwtbuild.DepsDirName)
		if _, err := os.Stat(workspace); errors.Is(err, os.ErrNotExist) {
			hwtbuild.Logger().Info().Str("workspace", workspace).Msg("nothing to clean")
			return nil
		}
		return hwtbuild.NewMakefileBuilder(config).Clean(cmd.Context(), workspace)
	},
}
