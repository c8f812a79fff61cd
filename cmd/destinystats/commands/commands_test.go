package commands

import (
	"bytes"
	"destinystats/internal/bungie"
	"destinystats/internal/bungie/bungietest"
	"destinystats/internal/config"
	"destinystats/internal/pipeline"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testAccount = "guardian"
const testMembershipId = "4611686018400000001"

type harness struct {
	server  *bungietest.Server
	config  string
	archive string
}

func newHarness(t *testing.T) harness {
	t.Setenv(config.ApiKeyEnv, "")

	server := bungietest.NewServer(t)
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "archive.db")
	configPath := filepath.Join(dir, config.FileName)
	contents := fmt.Sprintf(`{
		// fake upstream
		api_key: %q,
		base_url: %q,
		default_platform: "psn",
		timeout: "5s",
		archive: { file: %q },
	}`, bungietest.ApiKey, server.URL, archivePath)
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0644))

	return harness{server: server, config: configPath, archive: archivePath}
}

func (h harness) routeAccount(characters ...bungietest.Character) {
	h.server.Handle(
		bungie.PlayerPath(bungie.MembershipPSN, testAccount),
		bungietest.Success(bungietest.PlayerPayload(testAccount, testMembershipId)),
	)
	h.server.Handle(
		bungie.SummaryPath(bungie.MembershipPSN, testMembershipId),
		bungietest.Success(bungietest.SummaryPayload(testMembershipId, characters...)),
	)
	for _, c := range characters {
		h.server.Handle(
			bungie.CharacterPath(bungie.MembershipPSN, testMembershipId, c.Id),
			bungietest.Success(bungietest.CharacterPayload(c)),
		)
		h.server.Handle(
			bungie.HistoricalStatsPath(bungie.MembershipPSN, testMembershipId, c.Id),
			bungietest.Success(bungietest.HistoricalPayload(c)),
		)
	}
}

// resetFlags puts every flag back to its default, cobra keeps flag values
// between executions and slice flags append to what they already hold.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, slice.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}

func (h harness) run(t *testing.T, args ...string) (string, error) {
	resetFlags(t, rootCmd)

	buff := &bytes.Buffer{}
	rootCmd.SetOut(buff)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", h.config}, args...))
	err := rootCmd.Execute()
	return buff.String(), err
}

func TestStatsCommand(t *testing.T) {
	h := newHarness(t)
	h.routeAccount(bungietest.Guardians...)

	out, err := h.run(t, "--json", "stats", "psn", testAccount, "--classes", "titan", "--strategy", "detail")
	require.NoError(t, err)

	var state pipeline.State
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	require.Equal(t, testMembershipId, state.MembershipId)
	require.Len(t, state.CharacterStats, 1)
	require.Equal(t, pipeline.Titan, state.CharacterStats[0].Class)
}

func TestStatsCommandUsesDefaultPlatform(t *testing.T) {
	h := newHarness(t)
	h.routeAccount(bungietest.Guardians...)

	out, err := h.run(t, "stats", testAccount, "--classes", "hunter,warlock", "--strategy", "summary")
	require.NoError(t, err)
	require.Contains(t, out, bungietest.Guardians[0].Id)
	require.Contains(t, out, bungietest.Guardians[1].Id)
	require.NotContains(t, out, bungietest.Guardians[2].Id)
}

func TestStatsCommandRejectsUnknownClass(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "stats", "psn", testAccount, "--classes", "huntr", "--strategy", "detail")
	require.ErrorContains(t, err, "did you mean hunter?")
	require.Zero(t, h.server.Hits(bungie.PlayerPath(bungie.MembershipPSN, testAccount)))
}

func TestHistoryCommandArchives(t *testing.T) {
	h := newHarness(t)
	h.routeAccount(bungietest.Guardians...)

	out, err := h.run(t, "--archive", "history", "psn", testAccount)
	require.NoError(t, err)
	require.Contains(t, out, "1024")

	out, err = h.run(t, "--json", "archive", "list", "historical-stats", testAccount)
	require.NoError(t, err)

	var records []struct {
		Account string
		State   pipeline.State
	}
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	require.Equal(t, testAccount, records[0].Account)
	require.Len(t, records[0].State.HistoricalStats, 3)
}

func TestXurCommand(t *testing.T) {
	h := newHarness(t)
	h.server.Handle(bungie.XurPath(), bungietest.Success(bungietest.XurPayload()))

	out, err := h.run(t, "xur")
	require.NoError(t, err)
	require.Contains(t, out, "Gjallarhorn")
}

func TestMembershipNotFoundMessage(t *testing.T) {
	h := newHarness(t)
	h.server.Handle(
		bungie.PlayerPath(bungie.MembershipPSN, "nobody"),
		bungietest.Success(bungietest.PlayerPayload("nobody")),
	)

	_, err := h.run(t, "stats", "psn", "nobody")
	require.Error(t, err)
	require.Equal(t, "no destiny account found for nobody", describeError(err))
}
