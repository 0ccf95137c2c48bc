package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/teamsort/internal/infra/samplegen"
)

func sampleCmd() *cobra.Command {
	var players string
	var constraints string
	var count int
	var seed uint64

	c := &cobra.Command{
		Use:   "sample",
		Short: "Write sample players and constraints CSV files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if players == "" && constraints == "" {
				return fmt.Errorf("nothing to write (use --players and/or --constraints)")
			}
			if count < 0 {
				return fmt.Errorf("--count must be >= 0, got %d", count)
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			gen := samplegen.New(seed)
			if err := gen.WriteFiles(players, constraints, count); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if players != "" {
				fmt.Fprintf(w, "Wrote %d players to %s (seed=%d)\n", count, players, seed)
			}
			if constraints != "" {
				fmt.Fprintf(w, "Wrote %d age groups to %s\n", len(samplegen.DefaultAgeGroups), constraints)
			}
			return nil
		},
	}

	c.Flags().StringVar(&players, "players", "players.csv", "Players CSV to write (empty to skip)")
	c.Flags().StringVar(&constraints, "constraints", "constraints.csv", "Constraints CSV to write (empty to skip)")
	c.Flags().IntVarP(&count, "count", "n", samplegen.DefaultCount, "Number of players")
	c.Flags().Uint64Var(&seed, "seed", 0, "Random seed (random when omitted)")
	return c
}
