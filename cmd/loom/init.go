package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		asJSON bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write loom.yaml with every setting at its default value.

Examples:
  loom init
  loom init site --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			name := config.ConfigFileName
			if asJSON {
				name = "loom.json"
			}
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("E140").
					WithDetail(path + " already exists")
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.New("E120").Wrap(err)
			}
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd, "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write loom.json instead of loom.yaml")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
