package pipeline

import (
	"destinystats/internal/bungie"
	"destinystats/internal/bungie/bungietest"
	"destinystats/lib/telemetry"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testAccountId    = "guardian"
	testMembershipId = "4611686018400000001"
)

var testCred = Credential(bungietest.ApiKey)

func newTestFetcher(t testing.TB) (*bungietest.Server, bungie.Fetcher) {
	server := bungietest.NewServer(t)
	client := bungie.NewClient(bungie.ClientOptions{
		BaseUrl: server.URL,
		Timeout: time.Second * 5,
	}, &telemetry.Recorder{})
	return server, client
}

func inputState() State {
	return NewState(bungie.MembershipPSN, testAccountId)
}

func resolvedState() State {
	state := inputState()
	state.MembershipId = testMembershipId
	return state
}

// routeAccount registers every endpoint of an account owning characters.
func routeAccount(server *bungietest.Server, characters ...bungietest.Character) {
	server.Handle(
		bungie.PlayerPath(bungie.MembershipPSN, testAccountId),
		bungietest.Success(bungietest.PlayerPayload(testAccountId, testMembershipId)),
	)
	server.Handle(
		bungie.SummaryPath(bungie.MembershipPSN, testMembershipId),
		bungietest.Success(bungietest.SummaryPayload(testMembershipId, characters...)),
	)
	for _, c := range characters {
		server.Handle(
			bungie.CharacterPath(bungie.MembershipPSN, testMembershipId, c.Id),
			bungietest.Success(bungietest.CharacterPayload(c)),
		)
		server.Handle(
			bungie.HistoricalStatsPath(bungie.MembershipPSN, testMembershipId, c.Id),
			bungietest.Success(bungietest.HistoricalPayload(c)),
		)
	}
}

// payloadField marshals payload and returns one of its top level fields.
func payloadField(t testing.TB, payload map[string]any, field string) string {
	out, err := json.Marshal(payload[field])
	require.NoError(t, err)
	return string(out)
}

func classesOf(stats []CharacterStats) []CharacterClass {
	out := make([]CharacterClass, len(stats))
	for i, s := range stats {
		out[i] = s.Class
	}
	return out
}
