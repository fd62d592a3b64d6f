// nexusflow check — run the contract checks and print a per-case summary.
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/f9-o/nexusflow/internal/core/logger"
	"github.com/f9-o/nexusflow/internal/selfcheck"
	"github.com/f9-o/nexusflow/pkg/errs"
	"github.com/f9-o/nexusflow/pkg/nexusflow"
	"github.com/f9-o/nexusflow/pkg/pprint"
)

func NewCheckCmd() *cobra.Command {
	var (
		parallel bool
		shuffle  bool
		repeat   int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that NexusFlow constructs and runs successfully",
		Example: `  nexusflow check
  nexusflow check --repeat 50 --parallel
  nexusflow check --shuffle --seed 42`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			opts := selfcheck.Options{
				Parallel: rt.Config.Check.Parallel,
				Repeat:   rt.Config.Check.Repeat,
				Shuffle:  rt.Config.Check.Shuffle,
				Seed:     rt.Config.Check.Seed,
			}
			flags := cmd.Flags()
			if flags.Changed("parallel") {
				opts.Parallel = parallel
			}
			if flags.Changed("shuffle") {
				opts.Shuffle = shuffle
			}
			if flags.Changed("repeat") {
				opts.Repeat = repeat
			}
			if flags.Changed("seed") {
				opts.Seed = seed
			}
			if opts.Repeat < 1 {
				return errs.Newf(errs.ErrValidation, "check", "--repeat must be at least 1, got %d", opts.Repeat).
					WithAdvice("pass --repeat 1 or higher")
			}

			cases := selfcheck.DefaultCases(nexusflow.WithLogger(rt.Log.Logger))
			rep := selfcheck.NewRunner(cases, opts, rt.Log.Logger).Run(cmd.Context())
			rec := rep.Record()

			if err := rt.State.PutCheckRun(rec); err != nil {
				rt.Log.Warn("journal check run", "run", rec.ID, "err", err)
			} else if limit := rt.Config.State.HistoryLimit; limit > 0 {
				if n, err := rt.State.Prune(limit); err != nil {
					rt.Log.Warn("prune journal", "err", err)
				} else if n > 0 {
					rt.Log.Debug("pruned journal", "removed", n)
				}
			}

			result := "success"
			if !rep.Passed() {
				result = "failure"
			}
			rt.Log.Audit(logger.AuditEntry{
				Op:     "check",
				RunID:  rec.ID,
				Result: result,
				Meta: map[string]string{
					"passed": fmt.Sprint(rec.Passed),
					"failed": fmt.Sprint(rec.Failed),
				},
			})

			if rt.Flags.JSONOutput {
				if err := json.NewEncoder(pprint.Out).Encode(rec); err != nil {
					return err
				}
			} else {
				printReport(rep)
			}

			if !rep.Passed() {
				return failureError(rep)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&parallel, "parallel", false, "Run cases concurrently")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Randomise case order")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Run every case N times")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Shuffle seed (0 picks one)")
	return cmd
}

func printReport(rep *selfcheck.Report) {
	pprint.Header("Self-check")

	tbl := pprint.NewTable("CASE", "ITER", "STATUS", "DURATION", "DETAIL")
	for _, r := range rep.Results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		tbl.AddRow(r.Name, fmt.Sprint(r.Iteration), pprint.Status(r.Passed()), r.Duration.String(), detail)
	}
	tbl.Render()

	summary := fmt.Sprintf("%s  %s\nrun       %s\nduration  %s",
		pprint.Status(rep.Passed()), rep, rep.ID, rep.Duration.Round(time.Microsecond))
	if rep.Options.Shuffle {
		summary += fmt.Sprintf("\nseed      %d", rep.Options.Seed)
	}
	pprint.Panel("Summary", summary)
}

// failureError reports the first failure, keeping its code.
func failureError(rep *selfcheck.Report) error {
	for _, r := range rep.Results {
		if r.Err != nil {
			return errs.New(errs.CodeOf(r.Err), "check",
				fmt.Errorf("%d of %d case(s) failed; first: %s", rep.Failed(), len(rep.Results), r.Name)).
				WithResource(rep.ID)
		}
	}
	return nil
}
