package commands

import (
	"destinystats/internal/archive"
	"destinystats/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	statsClasses  []string
	statsStrategy string
)

func init() {
	statsCmd.Flags().StringSliceVar(&statsClasses, "classes", nil, "Only collect characters of these classes (hunter, warlock, titan).")
	statsCmd.Flags().StringVar(&statsStrategy, "strategy", "detail", "detail requests every character, summary makes one account summary request.")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [platform] <account>",
	Short: "Prints the stats of an account's characters.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := validateClasses(statsClasses)
		if err != nil {
			return err
		}
		strategy, err := pipeline.ParseStatsStrategy(statsStrategy)
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

		workflow := pipeline.CharacterStatsWorkflow(current.fetcher, current.tel, pipeline.CharacterStatsConfig{
			Classes:  statsClasses,
			Strategy: strategy,
		})
		state, err := workflow.Run(cmd.Context(), cred, input)
		if err != nil {
			return err
		}

		err = renderState(cmd.OutOrStdout(), state, renderCharacterStats)
		if err != nil {
			return err
		}
		return storeResult(cmd.Context(), archive.KindCharacterStats, input.AccountId, state)
	},
}
