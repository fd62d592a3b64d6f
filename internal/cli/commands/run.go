// nexusflow run — construct a NexusFlow and invoke it once.
package commands

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/f9-o/nexusflow/pkg/errs"
	"github.com/f9-o/nexusflow/pkg/nexusflow"
	"github.com/f9-o/nexusflow/pkg/pprint"
)

func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the flow once and report its result",
		Example: `  nexusflow run
  nexusflow run --json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			ok := nexusflow.New(nexusflow.WithLogger(rt.Log.Logger)).Run()
			rt.Log.Debug("run finished", "result", ok)

			if rt.Flags.JSONOutput {
				if err := json.NewEncoder(pprint.Out).Encode(map[string]bool{"result": ok}); err != nil {
					return err
				}
			} else if ok {
				pprint.Success("run returned true")
			}

			if !ok {
				return errs.New(errs.ErrAssertion, "run", errors.New("run returned false"))
			}
			return nil
		},
	}
}
