package pipeline

import (
	"context"
	"destinystats/internal/assert"
	"destinystats/internal/bungie"
	"encoding/json"
	"fmt"
	"strings"
)

type StatsStrategy int

const (
	// StatsPerCharacter requests every character's detail concurrently and
	// filters the responses by class.
	StatsPerCharacter StatsStrategy = iota
	// StatsFromSummary makes a single account summary request and filters
	// its character list by class.
	StatsFromSummary
)

func (s StatsStrategy) String() string {
	switch s {
	case StatsPerCharacter:
		return "detail"
	case StatsFromSummary:
		return "summary"
	}
	return fmt.Sprintf("StatsStrategy(%d)", int(s))
}

func ParseStatsStrategy(s string) (StatsStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "detail":
		return StatsPerCharacter, nil
	case "summary":
		return StatsFromSummary, nil
	}
	return 0, fmt.Errorf("unknown stats strategy %q, expected detail or summary", s)
}

// CharacterStatsConfig configures a character stats stage. An empty Classes
// selects every class.
type CharacterStatsConfig struct {
	Classes  []string
	Strategy StatsStrategy
}

func (c CharacterStatsConfig) Stage(fetcher bungie.Fetcher) Stage {
	assert.NotNil("fetcher", fetcher)
	return characterStatsStage{
		fetcher:  fetcher,
		filter:   NewClassFilter(c.Classes...),
		strategy: c.Strategy,
	}
}

type characterStatsStage struct {
	fetcher  bungie.Fetcher
	filter   ClassFilter
	strategy StatsStrategy
}

func (s characterStatsStage) Name() string {
	return fmt.Sprintf("character-stats[%s]", s.strategy)
}

func (s characterStatsStage) Run(ctx context.Context, cred Credential, state State) (State, error) {
	if state.MembershipId == "" {
		return State{}, &MissingStateError{Stage: s.Name(), Field: FieldMembershipId}
	}

	switch s.strategy {
	case StatsFromSummary:
		return s.runSummary(ctx, cred, state)
	default:
		return s.runPerCharacter(ctx, cred, state)
	}
}

type characterPayload struct {
	Data        json.RawMessage `json:"data"`
	Definitions json.RawMessage `json:"definitions"`
}

func (s characterStatsStage) runPerCharacter(ctx context.Context, cred Credential, state State) (State, error) {
	if state.CharacterIds == nil {
		return State{}, &MissingStateError{Stage: s.Name(), Field: FieldCharacterIds}
	}

	ids := state.CharacterIds
	responses, err := fanOut(ctx, s.Name(), len(ids), func(ctx context.Context, i int) (characterPayload, error) {
		envelope, err := fetchValid(
			ctx, s.fetcher, cred,
			bungie.CharacterPath(state.AccountType, state.MembershipId, ids[i]),
		)
		if err != nil {
			return characterPayload{}, err
		}
		return bungie.DecodePayload[characterPayload](envelope)
	})
	if err != nil {
		return State{}, err
	}

	stats := make([]CharacterStats, 0, len(responses))
	for i, res := range responses {
		base, err := decodeCharacterBase(res.Data)
		if err != nil {
			return State{}, err
		}
		if base.CharacterId == "" {
			base.CharacterId = ids[i]
		}
		class, err := base.class()
		if err != nil {
			return State{}, err
		}
		if !s.filter.Contains(class) {
			continue
		}
		stats = append(stats, CharacterStats{
			CharacterId: base.CharacterId,
			Class:       class,
			Character:   res.Data,
			Definitions: res.Definitions,
		})
	}

	next := state.clone()
	next.CharacterStats = stats
	return next, nil
}

func (s characterStatsStage) runSummary(ctx context.Context, cred Credential, state State) (State, error) {
	summary, err := fetchSummary(ctx, s.fetcher, cred, state)
	if err != nil {
		return State{}, err
	}

	stats := make([]CharacterStats, 0, len(summary.Data.Characters))
	for _, raw := range summary.Data.Characters {
		base, err := decodeCharacterBase(raw)
		if err != nil {
			return State{}, err
		}
		class, err := base.class()
		if err != nil {
			return State{}, err
		}
		if !s.filter.Contains(class) {
			continue
		}
		stats = append(stats, CharacterStats{
			CharacterId: base.CharacterId,
			Class:       class,
			Character:   raw,
		})
	}

	next := state.clone()
	next.CharacterStats = stats
	next.CharacterStatsDefinitions = summary.Definitions
	return next, nil
}
