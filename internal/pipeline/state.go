package pipeline

import (
	"destinystats/internal/bungie"
	"encoding/json"
	"slices"
)

// Credential is the api key every stage is run with.
type Credential string

// String keeps the key out of logs.
func (c Credential) String() string {
	if c == "" {
		return "<empty>"
	}
	return "<redacted>"
}

// CharacterRef pairs a character id with its class.
type CharacterRef struct {
	Id    string         `json:"id"`
	Class CharacterClass `json:"className"`
}

// CharacterStats is one character's detail record. Definitions is only set
// by the per character strategy, the summary strategy puts the shared
// definitions on State.CharacterStatsDefinitions.
type CharacterStats struct {
	CharacterId string          `json:"characterId"`
	Class       CharacterClass  `json:"className"`
	Character   json.RawMessage `json:"character"`
	Definitions json.RawMessage `json:"definitions,omitempty"`
}

type HistoricalStats struct {
	CharacterId string          `json:"characterId"`
	Class       CharacterClass  `json:"className"`
	Stats       json.RawMessage `json:"stats"`
}

// State is the record threaded through a pipeline. Stages never modify the
// State they are given, they return a copy with their fields added.
//
// A nil slice or RawMessage means the field has not been populated, an empty
// non-nil one means it was populated with nothing.
type State struct {
	AccountType bungie.MembershipType
	AccountId   string

	MembershipId string

	CharacterIds     []string
	CharacterClasses []CharacterRef

	CharacterStats            []CharacterStats
	CharacterStatsDefinitions json.RawMessage

	HistoricalStats []HistoricalStats

	Xur            json.RawMessage
	XurDefinitions json.RawMessage
}

// NewState returns the input state of an account pipeline.
func NewState(accountType bungie.MembershipType, accountId string) State {
	return State{AccountType: accountType, AccountId: accountId}
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return slices.Clone(raw)
}

func (s State) clone() State {
	out := s
	out.CharacterIds = slices.Clone(s.CharacterIds)
	out.CharacterClasses = slices.Clone(s.CharacterClasses)
	out.CharacterStatsDefinitions = cloneRaw(s.CharacterStatsDefinitions)
	out.HistoricalStats = slices.Clone(s.HistoricalStats)
	out.Xur = cloneRaw(s.Xur)
	out.XurDefinitions = cloneRaw(s.XurDefinitions)

	if s.CharacterStats != nil {
		out.CharacterStats = make([]CharacterStats, len(s.CharacterStats))
		for i, c := range s.CharacterStats {
			c.Character = cloneRaw(c.Character)
			c.Definitions = cloneRaw(c.Definitions)
			out.CharacterStats[i] = c
		}
	}
	for i := range out.HistoricalStats {
		out.HistoricalStats[i].Stats = cloneRaw(s.HistoricalStats[i].Stats)
	}
	return out
}

// field names as they appear in Fields and the json form of a State
const (
	FieldAccountType               = "accountType"
	FieldAccountId                 = "accountId"
	FieldMembershipId              = "membershipId"
	FieldCharacterIds              = "characterIds"
	FieldCharacterIdToClassName    = "characterIdToClassName"
	FieldCharacterStats            = "characterStats"
	FieldCharacterStatsDefinitions = "characterStatsDefinitions"
	FieldHistoricalStats           = "historicalStats"
	FieldXur                       = "xur"
	FieldXurDefinitions            = "xurDefinitions"
)

// Fields lists the populated fields in declaration order.
func (s State) Fields() []string {
	var out []string
	add := func(name string, populated bool) {
		if populated {
			out = append(out, name)
		}
	}
	add(FieldAccountType, s.AccountType != bungie.MembershipNone)
	add(FieldAccountId, s.AccountId != "")
	add(FieldMembershipId, s.MembershipId != "")
	add(FieldCharacterIds, s.CharacterIds != nil)
	add(FieldCharacterIdToClassName, s.CharacterClasses != nil)
	add(FieldCharacterStats, s.CharacterStats != nil)
	add(FieldCharacterStatsDefinitions, s.CharacterStatsDefinitions != nil)
	add(FieldHistoricalStats, s.HistoricalStats != nil)
	add(FieldXur, s.Xur != nil)
	add(FieldXurDefinitions, s.XurDefinitions != nil)
	return out
}

type stateJson struct {
	AccountType               *int              `json:"accountType,omitempty"`
	AccountId                 string            `json:"accountId,omitempty"`
	MembershipId              string            `json:"membershipId,omitempty"`
	CharacterIds              []string          `json:"characterIds,omitempty"`
	CharacterIdToClassName    []CharacterRef    `json:"characterIdToClassName,omitempty"`
	CharacterStats            []CharacterStats  `json:"characterStats,omitempty"`
	CharacterStatsDefinitions json.RawMessage   `json:"characterStatsDefinitions,omitempty"`
	HistoricalStats           []HistoricalStats `json:"historicalStats,omitempty"`
	Xur                       json.RawMessage   `json:"xur,omitempty"`
	XurDefinitions            json.RawMessage   `json:"xurDefinitions,omitempty"`
}

// MarshalJSON renders the populated fields as one object, keyed by the names
// Fields returns.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJson{
		AccountId:                 s.AccountId,
		MembershipId:              s.MembershipId,
		CharacterIds:              s.CharacterIds,
		CharacterIdToClassName:    s.CharacterClasses,
		CharacterStats:            s.CharacterStats,
		CharacterStatsDefinitions: s.CharacterStatsDefinitions,
		HistoricalStats:           s.HistoricalStats,
		Xur:                       s.Xur,
		XurDefinitions:            s.XurDefinitions,
	}
	if s.AccountType != bungie.MembershipNone {
		accountType := int(s.AccountType)
		out.AccountType = &accountType
	}
	return json.Marshal(out)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJson
	err := json.Unmarshal(data, &in)
	if err != nil {
		return err
	}
	*s = State{
		AccountId:                 in.AccountId,
		MembershipId:              in.MembershipId,
		CharacterIds:              in.CharacterIds,
		CharacterClasses:          in.CharacterIdToClassName,
		CharacterStats:            in.CharacterStats,
		CharacterStatsDefinitions: in.CharacterStatsDefinitions,
		HistoricalStats:           in.HistoricalStats,
		Xur:                       in.Xur,
		XurDefinitions:            in.XurDefinitions,
	}
	if in.AccountType != nil {
		s.AccountType = bungie.MembershipType(*in.AccountType)
	}
	return nil
}
