package pipeline

import (
	"context"
	"destinystats/internal/assert"
	"destinystats/internal/bungie"
	"encoding/json"
)

type vendorPayload struct {
	Data        json.RawMessage `json:"data"`
	Definitions json.RawMessage `json:"definitions"`
}

// FeaturedVendor takes the daily snapshot of Xur's inventory. It reads no
// account fields.
type FeaturedVendor struct {
	fetcher bungie.Fetcher
}

func NewFeaturedVendor(fetcher bungie.Fetcher) FeaturedVendor {
	assert.NotNil("fetcher", fetcher)
	return FeaturedVendor{fetcher: fetcher}
}

func (FeaturedVendor) Name() string {
	return "featured-vendor"
}

func (s FeaturedVendor) Run(ctx context.Context, cred Credential, state State) (State, error) {
	envelope, err := fetchValid(ctx, s.fetcher, cred, bungie.XurPath())
	if err != nil {
		return State{}, err
	}
	payload, err := bungie.DecodePayload[vendorPayload](envelope)
	if err != nil {
		return State{}, err
	}

	next := state.clone()
	next.Xur = payload.Data
	next.XurDefinitions = payload.Definitions
	return next, nil
}
