package main

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/export"
)

func exportCmd() *cobra.Command {
	var (
		configPath string
		dir        string
		bucket     string
		prefix     string
		region     string
		endpoint   string
		minify     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the demo pages as static HTML",
		Long: `Render every demo page once and store it as <page>.html.

Pages go to a directory by default. With --bucket they are uploaded to
S3; credentials are read from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  loom export
  loom export --dir=public --minify=false
  loom export --bucket=my-site --prefix=www --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("dir") {
				cfg.Export.Dir = dir
			}
			if flags.Changed("bucket") {
				cfg.Export.Bucket = bucket
			}
			if flags.Changed("prefix") {
				cfg.Export.Prefix = prefix
			}
			if flags.Changed("region") {
				cfg.Export.Region = region
			}
			if flags.Changed("endpoint") {
				cfg.Export.Endpoint = endpoint
			}
			if flags.Changed("minify") {
				cfg.Export.Minify = minify
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cfg.Log, cmd.ErrOrStderr())
			var (
				store export.Store
				where string
			)
			if cfg.Export.Bucket != "" {
				client := export.NewS3Client(export.S3Config{
					Region:   cfg.Export.Region,
					Endpoint: cfg.Export.Endpoint,
				})
				store = export.NewS3Store(client, cfg.Export.Bucket, cfg.Export.Prefix)
				where = "s3://" + cfg.Export.Bucket + "/" + cfg.Export.Prefix
			} else {
				ds, err := export.NewDiskStore(cfg.Export.Dir)
				if err != nil {
					return errors.New("E150").Wrap(err)
				}
				store, where = ds, ds.Dir()
			}

			keys, err := export.Export(cmd.Context(), store, demo.Pages(), export.Options{
				Minify:  cfg.Export.Minify,
				Doctype: cfg.Render.Doctype,
				Logger:  logger,
			})
			if err != nil {
				lerr := errors.New("E150").Wrap(err)
				var pe *export.PageError
				if stderrors.As(err, &pe) {
					lerr = lerr.WithDetail("Page " + pe.Key + " could not be exported.")
				}
				return lerr
			}
			success(cmd, "Exported %d pages to %s", len(keys), where)
			for _, k := range keys {
				info(cmd, "%s", k)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default ./loom.yaml if present)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket to upload to instead of a directory")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region of the bucket")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3 compatible endpoint URL")
	cmd.Flags().BoolVarP(&minify, "minify", "m", true, "Minify the pages")

	return cmd
}
