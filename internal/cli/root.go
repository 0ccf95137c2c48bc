package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/teamsort/internal/infra/fsworkspace"
	"github.com/aalvaropc/teamsort/internal/infra/logger"
	"github.com/aalvaropc/teamsort/internal/infra/workspacefinder"
	"github.com/aalvaropc/teamsort/internal/ui/tui"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	debug     bool
	workspace string
	server    string
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "teamsort",
		Short:        "teamsort — submit players and constraints, get teams back",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}

			cleanup := setupLogging(ws, opts.debug)
			defer func() { _ = cleanup() }()

			deps := tui.Deps{
				Workflow:             newController(ws, ws.newClient()),
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				DownloadsDir:         ws.downloadsDir(),
				Logger:               logger.L(),
				Debug:                opts.debug,
			}

			return tui.Run(deps)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.debug, "debug", false, "enable verbose logging to .teamsort/logs/teamsort.log")
	pf.StringVarP(&opts.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	pf.StringVar(&opts.server, "server", "", "Sort backend base URL (overrides teamsort.yaml and TEAMSORT_SERVER)")

	cmd.AddCommand(
		submitCmd(opts),
		downloadCmd(opts),
		historyCmd(opts),
		initCmd(),
		sampleCmd(),
		versionCmd(),
	)
	return cmd
}
