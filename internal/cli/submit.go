package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/infra/sortapi"
	"github.com/aalvaropc/teamsort/internal/usecase"
)

type submitReport struct {
	Players     string `json:"players"`
	Constraints string `json:"constraints"`
	Output      string `json:"output,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Saved       string `json:"saved,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
}

func submitCmd(opts *rootOptions) *cobra.Command {
	var players string
	var constraints string
	var download string
	var format string
	var quiet bool

	c := &cobra.Command{
		Use:   "submit",
		Short: "Upload a players file and a constraints file and print the output reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			p, err := resolveInput(players)
			if err != nil {
				return err
			}
			cs, err := resolveInput(constraints)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}
			cleanup := setupLogging(ws, opts.debug)
			defer func() { _ = cleanup() }()

			prog := newProgress(cmd.ErrOrStderr(), !quiet && format != "json")
			defer prog.Close()

			ctrl := newController(ws, ws.newClient(sortapi.WithUploadWrapper(prog.uploadWrapper("Uploading:"))))
			ctrl.SelectPlayersFile(p)
			ctrl.SelectConstraintsFile(cs)

			report := submitReport{Players: p.Path, Constraints: cs.Path}

			out, err := ctrl.Submit(cmd.Context())
			prog.finish()
			if err != nil {
				report.Error = err.Error()
				report.ErrorKind = string(domain.KindOf(err))
				_ = printSubmit(cmd.OutOrStdout(), report, format)
				return err
			}

			report.Output = out.String()
			report.DownloadURL = ctrl.State().DownloadURL

			if strings.TrimSpace(download) != "" {
				saved, err := ctrl.SaveOutput(cmd.Context(), download, usecase.WithWriterWrapper(prog.writerWrapper))
				prog.finish()
				if err != nil {
					report.Error = err.Error()
					report.ErrorKind = string(domain.KindOf(err))
					_ = printSubmit(cmd.OutOrStdout(), report, format)
					return err
				}
				report.Saved = saved
			}

			return printSubmit(cmd.OutOrStdout(), report, format)
		},
	}

	c.Flags().StringVarP(&players, "players", "p", "", "Players file (required)")
	c.Flags().StringVarP(&constraints, "constraints", "c", "", "Constraints file (required)")
	c.Flags().StringVarP(&download, "download", "d", "", "Save the output into this directory after a successful submit")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not draw progress bars")

	_ = c.MarkFlagRequired("players")
	_ = c.MarkFlagRequired("constraints")
	return c
}

func validateFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printSubmit(w io.Writer, r submitReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "pretty", "":
		printPrettySubmit(w, r)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettySubmit(w io.Writer, r submitReport) {
	fmt.Fprintf(w, "Players:     %s\n", r.Players)
	fmt.Fprintf(w, "Constraints: %s\n", r.Constraints)
	if r.Error != "" {
		fmt.Fprintf(w, "Status:      FAIL (%s)\n", r.ErrorKind)
		fmt.Fprintf(w, "Error:       %s\n", r.Error)
		return
	}
	fmt.Fprintf(w, "Status:      OK\n")
	fmt.Fprintf(w, "Output:      %s\n", r.Output)
	fmt.Fprintf(w, "Download:    %s\n", r.DownloadURL)
	if r.Saved != "" {
		fmt.Fprintf(w, "Saved:       %s\n", r.Saved)
	}
}
