package commands

import (
	"destinystats/internal/archive"
	"destinystats/internal/pipeline"

	"github.com/spf13/cobra"
)

var historyClasses []string

func init() {
	historyCmd.Flags().StringSliceVar(&historyClasses, "classes", nil, "Only collect characters of these classes (hunter, warlock, titan).")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [platform] <account>",
	Short: "Prints the all time historical stats of an account's characters.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := validateClasses(historyClasses)
		if err != nil {
			return err
		}
		input, err := accountArgs(args)
		if err != nil {
			return err
		}
		cred, err := credential()
		if err != nil {
			return err
		}

		workflow := pipeline.HistoricalStatsWorkflow(current.fetcher, current.tel, pipeline.HistoricalStatsConfig{
			Classes: historyClasses,
		})
		state, err := workflow.Run(cmd.Context(), cred, input)
		if err != nil {
			return err
		}

		err = renderState(cmd.OutOrStdout(), state, renderHistoricalStats)
		if err != nil {
			return err
		}
		return storeResult(cmd.Context(), archive.KindHistoricalStats, input.AccountId, state)
	},
}
