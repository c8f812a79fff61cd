package commands

import (
	"destinystats/internal/bungie"
	"destinystats/internal/pipeline"
	"errors"
	"fmt"
)

func describeError(err error) string {
	var notFound *pipeline.MembershipNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("no destiny account found for %s", notFound.AccountId)
	}
	var remote *bungie.RemoteServiceError
	if errors.As(err, &remote) {
		switch remote.Code {
		case bungie.DestinyThrottled:
			return fmt.Sprintf("throttled by bungie, try again later (%s)", remote.Message)
		case bungie.SystemDisabled:
			return fmt.Sprintf("the bungie api is down for maintenance (%s)", remote.Message)
		}
		return fmt.Sprintf("bungie api error %d: %v", remote.Code, err)
	}
	return err.Error()
}
