package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/teamsort/internal/domain"
)

func historyCmd(opts *rootOptions) *cobra.Command {
	var limit int
	var show string
	var format string

	c := &cobra.Command{
		Use:   "history",
		Short: "List past submissions recorded in the workspace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if show != "" {
				sub, err := ws.history.Load(show)
				if err != nil {
					return err
				}
				return printSubmission(w, sub, format)
			}

			refs, err := ws.history.List(limit)
			if err != nil {
				return err
			}
			if !ws.history.Enabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), "(history is disabled in teamsort.yaml)")
			}
			return printHistory(w, refs, format, time.Now())
		},
	}

	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 = all)")
	c.Flags().StringVar(&show, "show", "", "Print the full record of one submission (id or id prefix)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printHistory(w io.Writer, refs []domain.SubmissionRef, format string, now time.Time) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	}

	if len(refs) == 0 {
		fmt.Fprintln(w, "(no submissions recorded)")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSTATUS\tINPUTS\tSIZE\tOUTPUT")
	for _, r := range refs {
		out := r.Output.String()
		if out == "" {
			out = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s + %s\t%s\t%s\n",
			shortRef(r.ID),
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Status,
			r.Players,
			r.Constraints,
			humanize.Bytes(uint64(max(r.Bytes, 0))),
			out,
		)
	}
	return tw.Flush()
}

func printSubmission(w io.Writer, s domain.Submission, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(w, "ID:          %s\n", s.ID)
	fmt.Fprintf(w, "Server:      %s\n", s.Server)
	fmt.Fprintf(w, "Started:     %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:    %s\n", s.Duration())
	fmt.Fprintf(w, "Players:     %s (%s)\n", s.Players.Path, humanize.Bytes(uint64(max(s.PlayersBytes, 0))))
	fmt.Fprintf(w, "Constraints: %s (%s)\n", s.Constraints.Path, humanize.Bytes(uint64(max(s.ConstraintsBytes, 0))))
	fmt.Fprintf(w, "Status:      %s\n", s.Status)
	if s.StatusCode != 0 {
		fmt.Fprintf(w, "HTTP:        %d\n", s.StatusCode)
	}
	if s.Output != "" {
		fmt.Fprintf(w, "Output:      %s\n", s.Output)
	}
	if s.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:       %s (%s)\n", s.ErrorMessage, s.ErrorKind)
	}
	return nil
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}
