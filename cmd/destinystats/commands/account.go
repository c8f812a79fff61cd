package commands

import (
	"destinystats/internal/bungie"
	"destinystats/internal/pipeline"
	"fmt"
)

// accountArgs parses "[platform] <account>", falling back to the configured
// default platform.
func accountArgs(args []string) (pipeline.State, error) {
	var platform bungie.MembershipType
	var err error
	account := args[len(args)-1]
	if len(args) == 2 {
		platform, err = bungie.ParseMembershipType(args[0])
	} else {
		platform, err = current.config.Platform()
	}
	if err != nil {
		return pipeline.State{}, err
	}
	if account == "" {
		return pipeline.State{}, fmt.Errorf("empty account name")
	}
	return pipeline.NewState(platform, account), nil
}

func credential() (pipeline.Credential, error) {
	err := current.config.RequireApiKey()
	if err != nil {
		return "", err
	}
	return pipeline.Credential(current.config.ApiKey), nil
}
