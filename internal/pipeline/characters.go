package pipeline

import (
	"context"
	"destinystats/internal/assert"
	"destinystats/internal/bungie"
	"encoding/json"
	"fmt"
)

type characterBase struct {
	CharacterId string `json:"characterId"`
	ClassHash   uint32 `json:"classHash"`
}

type characterRecord struct {
	CharacterBase characterBase `json:"characterBase"`
}

// summaryPayload is the account summary response. Data.Characters stays nil
// when the platform leaves the list out.
type summaryPayload struct {
	Data struct {
		Characters []json.RawMessage `json:"characters"`
	} `json:"data"`
	Definitions json.RawMessage `json:"definitions"`
}

func decodeCharacterBase(raw json.RawMessage) (characterBase, error) {
	var record characterRecord
	err := json.Unmarshal(raw, &record)
	if err != nil {
		return characterBase{}, fmt.Errorf("decode character: %w", err)
	}
	return record.CharacterBase, nil
}

func (c characterBase) class() (CharacterClass, error) {
	class, ok := ClassFromHash(c.ClassHash)
	if !ok {
		return "", &UnknownClassError{CharacterId: c.CharacterId, Hash: c.ClassHash}
	}
	return class, nil
}

func fetchSummary(ctx context.Context, fetcher bungie.Fetcher, cred Credential, state State) (summaryPayload, error) {
	envelope, err := fetchValid(ctx, fetcher, cred, bungie.SummaryPath(state.AccountType, state.MembershipId))
	if err != nil {
		return summaryPayload{}, err
	}
	return bungie.DecodePayload[summaryPayload](envelope)
}

type EnumerationStrategy int

const (
	// EnumerateIdsAndClasses populates CharacterIds and CharacterClasses, the
	// historical stats stage needs the latter.
	EnumerateIdsAndClasses EnumerationStrategy = iota
	// EnumerateIdsOnly populates CharacterIds, for stages that learn the class
	// from their own requests.
	EnumerateIdsOnly
)

func (s EnumerationStrategy) String() string {
	switch s {
	case EnumerateIdsAndClasses:
		return "ids-and-classes"
	case EnumerateIdsOnly:
		return "ids-only"
	}
	return fmt.Sprintf("EnumerationStrategy(%d)", int(s))
}

// EnumerateCharacters lists the characters of State.MembershipId.
//
// When the summary has no character list at all, the output fields are left
// unpopulated instead of failing. A later stage reading them reports a
// MissingStateError.
type EnumerateCharacters struct {
	fetcher  bungie.Fetcher
	strategy EnumerationStrategy
}

func NewEnumerateCharacters(fetcher bungie.Fetcher, strategy EnumerationStrategy) EnumerateCharacters {
	assert.NotNil("fetcher", fetcher)
	return EnumerateCharacters{fetcher: fetcher, strategy: strategy}
}

func (EnumerateCharacters) Name() string {
	return "enumerate-characters"
}

func (s EnumerateCharacters) Run(ctx context.Context, cred Credential, state State) (State, error) {
	if state.MembershipId == "" {
		return State{}, &MissingStateError{Stage: s.Name(), Field: FieldMembershipId}
	}

	summary, err := fetchSummary(ctx, s.fetcher, cred, state)
	if err != nil {
		return State{}, err
	}

	next := state.clone()
	characters := summary.Data.Characters
	if characters == nil {
		next.CharacterIds = nil
		next.CharacterClasses = nil
		return next, nil
	}

	ids := make([]string, 0, len(characters))
	refs := make([]CharacterRef, 0, len(characters))
	for _, raw := range characters {
		base, err := decodeCharacterBase(raw)
		if err != nil {
			return State{}, err
		}
		ids = append(ids, base.CharacterId)

		if s.strategy != EnumerateIdsAndClasses {
			continue
		}
		class, err := base.class()
		if err != nil {
			return State{}, err
		}
		refs = append(refs, CharacterRef{Id: base.CharacterId, Class: class})
	}

	next.CharacterIds = ids
	if s.strategy == EnumerateIdsAndClasses {
		next.CharacterClasses = refs
	}
	return next, nil
}
