package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/infra/logger"
	"github.com/aalvaropc/teamsort/internal/usecase"
)

func downloadCmd(opts *rootOptions) *cobra.Command {
	var quiet bool
	var name string

	c := &cobra.Command{
		Use:   "download REF [DEST]",
		Short: "Download an output file by its reference (DEST '-' writes to stdout)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := domain.OutputRef(args[0])
			if ref.IsEmpty() {
				return fmt.Errorf("output reference is empty")
			}

			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}
			cleanup := setupLogging(ws, opts.debug)
			defer func() { _ = cleanup() }()

			client := ws.newClient()
			log := logger.L()

			dest := ws.downloadsDir()
			if len(args) == 2 {
				dest = args[1]
			}

			if dest == "-" {
				err := client.Download(cmd.Context(), ref, func(a domain.Attachment) error {
					_, err := io.Copy(cmd.OutOrStdout(), a.Body)
					return err
				})
				if err != nil {
					log.Error("download.failed", "output", ref.String(), "err", err)
					return err
				}
				log.Info("download.ok", "output", ref.String(), "path", "-")
				return nil
			}

			prog := newProgress(cmd.ErrOrStderr(), !quiet)
			defer prog.Close()

			saveOpts := []usecase.SaveOption{usecase.WithWriterWrapper(prog.writerWrapper)}
			if name != "" {
				saveOpts = append(saveOpts, usecase.WithFilename(name))
			}

			path, err := usecase.SaveOutput(cmd.Context(), client, ref, dest, saveOpts...)
			prog.finish()
			if err != nil {
				log.Error("download.failed", "output", ref.String(), "err", err)
				return err
			}
			log.Info("download.ok", "output", ref.String(), "path", path)

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", path, fileSizeLabel(path))
			return nil
		},
	}

	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not draw a progress bar")
	c.Flags().StringVar(&name, "name", "", "Local file name (defaults to the name the server suggests)")
	return c
}

func fileSizeLabel(path string) string {
	size, ok := statSize(path)
	if !ok {
		return "size unknown"
	}
	return humanize.Bytes(uint64(size))
}
