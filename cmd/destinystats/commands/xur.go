package commands

import (
	"destinystats/internal/archive"
	"destinystats/internal/pipeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(xurCmd)
}

var xurCmd = &cobra.Command{
	Use:   "xur",
	Short: "Prints what Xur is selling.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cred, err := credential()
		if err != nil {
			return err
		}
		state, err := pipeline.FeaturedVendorWorkflow(current.fetcher, current.tel).
			Run(cmd.Context(), cred, pipeline.State{})
		if err != nil {
			return err
		}

		err = renderState(cmd.OutOrStdout(), state, renderXur)
		if err != nil {
			return err
		}
		return storeResult(cmd.Context(), archive.KindXur, "", state)
	},
}
