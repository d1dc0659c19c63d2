package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stockroom/backend/internal/client"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// downloadLinker is implemented by archivers that can hand out download links
type downloadLinker interface {
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)
}

// exportFunc is a Client export method expression, e.g. (*client.Client).ExportLogs
type exportFunc func(c *client.Client, ctx context.Context, q client.Query, w io.Writer) (int64, error)

func (a *app) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered logs or items as CSV",
		Long: `Downloads the CSV export of a filtered list. The file goes to --file, to
standard output, or with --archive to the configured object storage bucket.`,
	}
	cmd.AddCommand(
		a.newExportSubCmd("logs", "Export the activity log", true, (*client.Client).ExportLogs),
		a.newExportSubCmd("items", "Export inventory items", false, (*client.Client).ExportItems),
	)
	return cmd
}

func (a *app) newExportSubCmd(name, short string, logs bool, export exportFunc) *cobra.Command {
	var (
		file    string
		archive bool
		q       *client.Query
	)
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if archive && file != "" {
				return fmt.Errorf("--file and --archive cannot be combined")
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if archive {
				var buf bytes.Buffer
				if _, err := export(c, ctx, *q, &buf); err != nil {
					return err
				}
				return a.archive(ctx, cmd.OutOrStdout(), name, buf.Bytes())
			}

			w := cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := export(c, ctx, *q, w)
			if err != nil {
				return err
			}
			if file != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", n, file)
			}
			return nil
		},
	}
	q = queryFlags(cmd.Flags(), logs)
	cmd.Flags().StringVarP(&file, "file", "f", "", "write the CSV to this file")
	cmd.Flags().BoolVar(&archive, "archive", false, "upload the CSV to the export bucket")
	return cmd
}

// archive uploads data and prints the object key, plus a download link when
// the archiver can sign one
func (a *app) archive(ctx context.Context, out io.Writer, name string, data []byte) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	log, err := a.logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	archiver, err := a.newArchiver(ctx, &cfg.Export, log)
	if err != nil {
		return err
	}
	key, err := archiver.Archive(ctx, name, data)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, key)

	if linker, ok := archiver.(downloadLinker); ok {
		url, expires, err := linker.DownloadURL(ctx, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n(link expires %s)\n", url, expires.UTC().Format(time.RFC3339))
	}
	return nil
}

func newS3Archiver(ctx context.Context, cfg *config.ExportConfig, log *zap.Logger) (storage.Archiver, error) {
	a, err := storage.NewS3Archiver(ctx, cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := a.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
