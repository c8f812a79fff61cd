package pipeline

import (
	"context"
	"destinystats/internal/bungie"
	"destinystats/internal/bungie/bungietest"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestResolveMembership(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Guardians...)

	input := inputState()
	out, err := NewResolveMembership(fetcher).Run(context.Background(), testCred, input)
	require.NoError(t, err)

	require.Equal(t, testMembershipId, out.MembershipId)
	require.Equal(t, []string{FieldAccountType, FieldAccountId, FieldMembershipId}, out.Fields())
	require.Equal(t, inputState(), input)
}

func TestResolveMembershipNotFound(t *testing.T) {
	table := []struct {
		name    string
		payload any
	}{
		{name: "empty list", payload: []any{}},
		{name: "missing membership id", payload: []map[string]any{{"displayName": testAccountId}}},
		{name: "no payload", payload: nil},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			server, fetcher := newTestFetcher(t)
			server.Handle(
				bungie.PlayerPath(bungie.MembershipPSN, testAccountId),
				bungietest.Success(row.payload),
			)

			_, err := NewResolveMembership(fetcher).Run(context.Background(), testCred, inputState())
			var notFound *MembershipNotFoundError
			require.True(t, errors.As(err, &notFound), err)
			require.Equal(t, testAccountId, notFound.AccountId)
			require.Equal(t, "membershipId not found for accountId: guardian", err.Error())
		})
	}
}

func TestResolveMembershipRemoteError(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	server.Handle(
		bungie.PlayerPath(bungie.MembershipPSN, testAccountId),
		bungietest.Failure(0, "Error", "Something went wrong"),
	)

	_, err := NewResolveMembership(fetcher).Run(context.Background(), testCred, inputState())
	var remote *bungie.RemoteServiceError
	require.True(t, errors.As(err, &remote), err)
	require.Equal(t, &bungie.RemoteServiceError{Code: 0, Status: "Error", Message: "Something went wrong"}, remote)
	require.Equal(t, "Error: Something went wrong", err.Error())
}

func TestResolveMembershipMissingInput(t *testing.T) {
	_, fetcher := newTestFetcher(t)
	_, err := NewResolveMembership(fetcher).Run(context.Background(), testCred, State{AccountType: bungie.MembershipPSN})

	var missing *MissingStateError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, FieldAccountId, missing.Field)
}

func TestEnumerateCharacters(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Guardians...)

	out, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)

	require.Len(t, out.CharacterIds, 3)
	require.Equal(t, []CharacterRef{
		{Id: bungietest.Guardians[0].Id, Class: Hunter},
		{Id: bungietest.Guardians[1].Id, Class: Warlock},
		{Id: bungietest.Guardians[2].Id, Class: Titan},
	}, out.CharacterClasses)

	idsOnly, err := NewEnumerateCharacters(fetcher, EnumerateIdsOnly).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)
	require.Equal(t, out.CharacterIds, idsOnly.CharacterIds)
	require.Nil(t, idsOnly.CharacterClasses)
}

// A summary without a character list leaves the character fields
// unpopulated instead of failing, the next stage that needs them fails.
func TestEnumerateCharactersMissingList(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	server.Handle(
		bungie.SummaryPath(bungie.MembershipPSN, testMembershipId),
		bungietest.Success(map[string]any{"data": map[string]any{"membershipId": testMembershipId}}),
	)

	out, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)
	require.Nil(t, out.CharacterIds)
	require.Nil(t, out.CharacterClasses)
	require.Equal(t, []string{FieldAccountType, FieldAccountId, FieldMembershipId}, out.Fields())

	_, err = HistoricalStatsConfig{}.Stage(fetcher).Run(context.Background(), testCred, out)
	var missing *MissingStateError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, FieldCharacterIdToClassName, missing.Field)
}

func TestEnumerateCharactersEmptyList(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server)

	out, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)
	require.NotNil(t, out.CharacterIds)
	require.Empty(t, out.CharacterIds)
	require.NotNil(t, out.CharacterClasses)
}

func TestEnumerateCharactersUnknownClass(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Character{Id: "99", ClassHash: 42})

	_, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	var unknown *UnknownClassError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, uint32(42), unknown.Hash)
	require.Equal(t, "99", unknown.CharacterId)

	out, err := NewEnumerateCharacters(fetcher, EnumerateIdsOnly).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)
	require.Equal(t, []string{"99"}, out.CharacterIds)
}

func TestEnumerateCharactersRemoteError(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	server.Handle(
		bungie.SummaryPath(bungie.MembershipPSN, testMembershipId),
		bungietest.Failure(bungie.DestinyAccountNotFound, "DestinyAccountNotFound", "We were unable to find your Destiny account information."),
	)

	_, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	var remote *bungie.RemoteServiceError
	require.True(t, errors.As(err, &remote))
	require.Equal(t, bungie.DestinyAccountNotFound, remote.Code)
}

func TestCharacterStatsClassFilter(t *testing.T) {
	table := []struct {
		classes  []string
		expected []CharacterClass
	}{
		{classes: nil, expected: []CharacterClass{Hunter, Warlock, Titan}},
		{classes: []string{}, expected: []CharacterClass{Hunter, Warlock, Titan}},
		{classes: []string{"titan"}, expected: []CharacterClass{Titan}},
		{classes: []string{"TITAN", "Hunter"}, expected: []CharacterClass{Hunter, Titan}},
		{classes: []string{"gunslinger"}, expected: []CharacterClass{}},
	}

	for _, strategy := range []StatsStrategy{StatsPerCharacter, StatsFromSummary} {
		for _, row := range table {
			name := strategy.String() + "/" + strings.Join(row.classes, ",")
			t.Run(name, func(t *testing.T) {
				server, fetcher := newTestFetcher(t)
				routeAccount(server, bungietest.Guardians...)

				state := resolvedState()
				state.CharacterIds = []string{
					bungietest.Guardians[0].Id,
					bungietest.Guardians[1].Id,
					bungietest.Guardians[2].Id,
				}

				stage := CharacterStatsConfig{Classes: row.classes, Strategy: strategy}.Stage(fetcher)
				out, err := stage.Run(context.Background(), testCred, state)
				require.NoError(t, err)
				require.Equal(t, row.expected, classesOf(out.CharacterStats))
				require.Equal(t, state.CharacterIds, out.CharacterIds)
			})
		}
	}
}

func TestCharacterStatsPerCharacterPayload(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Guardians...)

	titan := bungietest.Guardians[2]
	state := resolvedState()
	state.CharacterIds = []string{titan.Id}

	out, err := CharacterStatsConfig{}.Stage(fetcher).Run(context.Background(), testCred, state)
	require.NoError(t, err)
	require.Len(t, out.CharacterStats, 1)

	payload := bungietest.CharacterPayload(titan)
	stats := out.CharacterStats[0]
	require.Equal(t, titan.Id, stats.CharacterId)
	require.JSONEq(t, payloadField(t, payload, "data"), string(stats.Character))
	require.JSONEq(t, payloadField(t, payload, "definitions"), string(stats.Definitions))
	require.Nil(t, out.CharacterStatsDefinitions)
	require.Equal(t, 1, server.Hits(bungie.CharacterPath(bungie.MembershipPSN, testMembershipId, titan.Id)))
}

func TestCharacterStatsSummaryDefinitions(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Guardians...)

	out, err := CharacterStatsConfig{Strategy: StatsFromSummary}.Stage(fetcher).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)

	payload := bungietest.SummaryPayload(testMembershipId, bungietest.Guardians...)
	require.JSONEq(t, payloadField(t, payload, "definitions"), string(out.CharacterStatsDefinitions))
	require.Contains(t, out.Fields(), FieldCharacterStatsDefinitions)
	for _, c := range bungietest.Guardians {
		require.Equal(t, 0, server.Hits(bungie.CharacterPath(bungie.MembershipPSN, testMembershipId, c.Id)))
	}
}

func TestCharacterStatsFanOutAllOrNothing(t *testing.T) {
	failing := bungietest.Guardians[1]
	remoteErr := bungietest.Failure(bungie.DestinyCharacterNotFound, "DestinyCharacterNotFound", "character not found")

	fetcher := bungie.FetcherFunc(func(ctx context.Context, apiKey, path string) (bungie.Envelope, error) {
		for _, c := range bungietest.Guardians {
			if path != bungie.CharacterPath(bungie.MembershipPSN, testMembershipId, c.Id) {
				continue
			}
			if c.Id == failing.Id {
				return remoteErr, nil
			}
			return bungietest.Success(bungietest.CharacterPayload(c)), nil
		}
		t.Errorf("unexpected path %s", path)
		return bungie.Envelope{}, errors.New("unexpected path")
	})

	state := resolvedState()
	for _, c := range bungietest.Guardians {
		state.CharacterIds = append(state.CharacterIds, c.Id)
	}

	out, err := CharacterStatsConfig{}.Stage(fetcher).Run(context.Background(), testCred, state)
	var remote *bungie.RemoteServiceError
	require.True(t, errors.As(err, &remote), err)
	require.Equal(t, bungie.DestinyCharacterNotFound, remote.Code)
	require.Equal(t, "character not found", remote.Message)
	require.Nil(t, out.CharacterStats)
}

func TestCharacterStatsRequiresIds(t *testing.T) {
	_, fetcher := newTestFetcher(t)
	_, err := CharacterStatsConfig{}.Stage(fetcher).Run(context.Background(), testCred, resolvedState())

	var missing *MissingStateError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, FieldCharacterIds, missing.Field)
}

func TestHistoricalStats(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Guardians...)

	enumerated, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)

	out, err := HistoricalStatsConfig{Classes: []string{"warlock"}}.Stage(fetcher).Run(context.Background(), testCred, enumerated)
	require.NoError(t, err)

	warlock := bungietest.Guardians[1]
	require.Len(t, out.HistoricalStats, 1)
	require.Equal(t, warlock.Id, out.HistoricalStats[0].CharacterId)
	require.Equal(t, Warlock, out.HistoricalStats[0].Class)

	expected, err := json.Marshal(bungietest.HistoricalPayload(warlock))
	require.NoError(t, err)
	require.JSONEq(t, string(expected), string(out.HistoricalStats[0].Stats))

	for _, c := range bungietest.Guardians {
		hits := server.Hits(bungie.HistoricalStatsPath(bungie.MembershipPSN, testMembershipId, c.Id))
		if c.Id == warlock.Id {
			require.Equal(t, 1, hits)
			continue
		}
		require.Equal(t, 0, hits, "filtered characters must not be requested")
	}
}

func TestHistoricalStatsAllClasses(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Guardians...)

	enumerated, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)

	out, err := HistoricalStatsConfig{}.Stage(fetcher).Run(context.Background(), testCred, enumerated)
	require.NoError(t, err)

	classes := make([]CharacterClass, len(out.HistoricalStats))
	for i, h := range out.HistoricalStats {
		classes[i] = h.Class
	}
	require.Equal(t, []CharacterClass{Hunter, Warlock, Titan}, classes)
}

func TestHistoricalStatsFanOutFailure(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	routeAccount(server, bungietest.Guardians...)
	titan := bungietest.Guardians[2]
	server.Handle(
		bungie.HistoricalStatsPath(bungie.MembershipPSN, testMembershipId, titan.Id),
		bungietest.Failure(bungie.SystemDisabled, "SystemDisabled", "This system is temporarily disabled for maintenance."),
	)

	enumerated, err := NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses).Run(context.Background(), testCred, resolvedState())
	require.NoError(t, err)

	out, err := HistoricalStatsConfig{}.Stage(fetcher).Run(context.Background(), testCred, enumerated)
	var remote *bungie.RemoteServiceError
	require.True(t, errors.As(err, &remote), err)
	require.Equal(t, "SystemDisabled", remote.Status)
	require.Nil(t, out.HistoricalStats)
}

func TestFeaturedVendor(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	server.Handle(bungie.XurPath(), bungietest.Success(bungietest.XurPayload()))

	out, err := NewFeaturedVendor(fetcher).Run(context.Background(), testCred, State{})
	require.NoError(t, err)

	payload := bungietest.XurPayload()
	require.JSONEq(t, payloadField(t, payload, "data"), string(out.Xur))
	require.JSONEq(t, payloadField(t, payload, "definitions"), string(out.XurDefinitions))
	require.Equal(t, []string{FieldXur, FieldXurDefinitions}, out.Fields())
}

func TestFeaturedVendorRemoteError(t *testing.T) {
	server, fetcher := newTestFetcher(t)
	server.Handle(bungie.XurPath(), bungietest.Failure(0, "Error", "Xur is not here"))

	_, err := NewFeaturedVendor(fetcher).Run(context.Background(), testCred, inputState())
	var remote *bungie.RemoteServiceError
	require.True(t, errors.As(err, &remote))
	require.Equal(t, "Xur is not here", remote.Message)
}

func TestActivitiesIsIdentity(t *testing.T) {
	states := []State{
		{},
		inputState(),
		{
			AccountType:      bungie.MembershipXbox,
			AccountId:        "someone",
			MembershipId:     testMembershipId,
			CharacterIds:     []string{"1"},
			CharacterClasses: []CharacterRef{{Id: "1", Class: Warlock}},
			Xur:              []byte(`{}`),
		},
	}

	for _, state := range states {
		out, err := Activities{}.Run(context.Background(), testCred, state)
		require.NoError(t, err)
		diff := cmp.Diff(state, out)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}
