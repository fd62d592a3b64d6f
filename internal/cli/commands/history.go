// nexusflow history — list journaled check runs.
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/f9-o/nexusflow/pkg/pprint"
)

func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List previous check runs, newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			recs, err := rt.State.ListCheckRuns(limit)
			if err != nil {
				return err
			}

			if rt.Flags.JSONOutput {
				return json.NewEncoder(pprint.Out).Encode(recs)
			}
			if len(recs) == 0 {
				pprint.Info("No check runs recorded yet. Run `nexusflow check`.")
				return nil
			}

			tbl := pprint.NewTable("RUN", "STARTED", "STATUS", "PASSED", "FAILED", "DURATION")
			for _, r := range recs {
				id := r.ID
				if len(id) > 8 {
					id = id[:8]
				}
				tbl.AddRow(
					id,
					r.StartedAt.Local().Format(time.DateTime),
					pprint.Status(r.OK()),
					fmt.Sprint(r.Passed),
					fmt.Sprint(r.Failed),
					r.Duration.Round(time.Microsecond).String(),
				)
			}
			tbl.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (0 for all)")
	return cmd
}
