package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/internal/errors"
)

func renderCmd() *cobra.Command {
	var (
		minify  bool
		doctype bool
	)

	cmd := &cobra.Command{
		Use:   "render [page]",
		Short: "Print a demo page as HTML",
		Long: `Render one of the demo pages and print it to stdout.

Pages: ` + strings.Join(slices.Sorted(maps.Keys(demo.Pages())), ", ") + `

Examples:
  loom render
  loom render about --minify`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "index"
			if len(args) == 1 {
				name = args[0]
			}
			build, ok := demo.Pages()[name]
			if !ok {
				return errors.Newf(errors.CategoryCLI, "unknown page %q", name).
					WithSuggestion("Run loom render --help to list the pages.")
			}

			rc := config.RenderConfig{Format: "html", Doctype: doctype}
			if minify {
				rc.Format = "minified"
			}
			opts, err := renderOptions(rc)
			if err != nil {
				return err
			}
			if err := build().RenderTo(cmd.OutOrStdout(), opts); err != nil {
				return errors.FromTree(err)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&minify, "minify", "m", false, "Minify the output")
	cmd.Flags().BoolVar(&doctype, "doctype", true, "Prefix the output with <!DOCTYPE html>")

	return cmd
}
