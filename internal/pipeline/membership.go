package pipeline

import (
	"context"
	"destinystats/internal/assert"
	"destinystats/internal/bungie"
)

type playerRecord struct {
	MembershipId string `json:"membershipId"`
	DisplayName  string `json:"displayName"`
}

// ResolveMembership looks up the membership id of State.AccountId.
type ResolveMembership struct {
	fetcher bungie.Fetcher
}

func NewResolveMembership(fetcher bungie.Fetcher) ResolveMembership {
	assert.NotNil("fetcher", fetcher)
	return ResolveMembership{fetcher: fetcher}
}

func (ResolveMembership) Name() string {
	return "resolve-membership"
}

func (s ResolveMembership) Run(ctx context.Context, cred Credential, state State) (State, error) {
	if state.AccountType == bungie.MembershipNone {
		return State{}, &MissingStateError{Stage: s.Name(), Field: FieldAccountType}
	}
	if state.AccountId == "" {
		return State{}, &MissingStateError{Stage: s.Name(), Field: FieldAccountId}
	}

	envelope, err := fetchValid(ctx, s.fetcher, cred, bungie.PlayerPath(state.AccountType, state.AccountId))
	if err != nil {
		return State{}, err
	}
	players, err := bungie.DecodePayload[[]playerRecord](envelope)
	if err != nil {
		return State{}, err
	}
	if len(players) == 0 || players[0].MembershipId == "" {
		return State{}, &MembershipNotFoundError{AccountId: state.AccountId}
	}

	next := state.clone()
	next.MembershipId = players[0].MembershipId
	return next, nil
}
