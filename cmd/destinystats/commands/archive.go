package commands

import (
	"destinystats/internal/archive"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	rootCmd.AddCommand(archiveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Reads results stored with --archive.",
}

var archiveListCmd = &cobra.Command{
	Use:   "list <xur|character-stats|historical-stats> [account]",
	Short: "Lists the archived results of a kind, oldest first.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := archive.ParseKind(args[0])
		if err != nil {
			return err
		}
		account := ""
		if len(args) == 2 {
			account = args[1]
		}

		store, err := openArchive(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Pull(cmd.Context(), kind, account)
		if err != nil {
			return err
		}
		if printJson {
			return writeJson(cmd.OutOrStdout(), records)
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Id", "Account", "Time", "Fields"})
		for _, r := range records {
			fields, err := sortedFields(r.State)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{r.Id, r.Account, r.Time.Local().Format(time.DateTime), strings.Join(fields, ", ")})
		}
		t.Render()
		return nil
	},
}
