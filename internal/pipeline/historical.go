package pipeline

import (
	"context"
	"destinystats/internal/assert"
	"destinystats/internal/bungie"
	"encoding/json"
)

// HistoricalStatsConfig configures a historical stats stage. An empty Classes
// selects every class.
type HistoricalStatsConfig struct {
	Classes []string
}

// Stage builds the stage. It reads State.CharacterClasses, so it has to run
// after EnumerateCharacters with EnumerateIdsAndClasses.
func (c HistoricalStatsConfig) Stage(fetcher bungie.Fetcher) Stage {
	assert.NotNil("fetcher", fetcher)
	return historicalStatsStage{
		fetcher: fetcher,
		filter:  NewClassFilter(c.Classes...),
	}
}

type historicalStatsStage struct {
	fetcher bungie.Fetcher
	filter  ClassFilter
}

func (historicalStatsStage) Name() string {
	return "historical-stats"
}

func (s historicalStatsStage) Run(ctx context.Context, cred Credential, state State) (State, error) {
	if state.MembershipId == "" {
		return State{}, &MissingStateError{Stage: s.Name(), Field: FieldMembershipId}
	}
	if state.CharacterClasses == nil {
		return State{}, &MissingStateError{Stage: s.Name(), Field: FieldCharacterIdToClassName}
	}

	var selected []CharacterRef
	for _, ref := range state.CharacterClasses {
		if s.filter.Contains(ref.Class) {
			selected = append(selected, ref)
		}
	}

	payloads, err := fanOut(ctx, s.Name(), len(selected), func(ctx context.Context, i int) (json.RawMessage, error) {
		envelope, err := fetchValid(
			ctx, s.fetcher, cred,
			bungie.HistoricalStatsPath(state.AccountType, state.MembershipId, selected[i].Id),
		)
		if err != nil {
			return nil, err
		}
		return envelope.Response, nil
	})
	if err != nil {
		return State{}, err
	}

	stats := make([]HistoricalStats, len(payloads))
	for i, payload := range payloads {
		stats[i] = HistoricalStats{
			CharacterId: selected[i].Id,
			Class:       selected[i].Class,
			Stats:       payload,
		}
	}

	next := state.clone()
	next.HistoricalStats = stats
	return next, nil
}
