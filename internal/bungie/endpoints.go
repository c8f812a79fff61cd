package bungie

import (
	"fmt"
	"net/url"
)

const DefaultBaseUrl = "https://www.bungie.net/Platform"

func PlayerPath(accountType MembershipType, accountId string) string {
	return fmt.Sprintf(
		"/Destiny/SearchDestinyPlayer/%d/%s/",
		accountType,
		url.PathEscape(accountId),
	)
}

func SummaryPath(accountType MembershipType, membershipId string) string {
	return fmt.Sprintf(
		"/Destiny/%d/Account/%s/Summary/?definitions=true",
		accountType,
		url.PathEscape(membershipId),
	)
}

func CharacterPath(accountType MembershipType, membershipId, characterId string) string {
	return fmt.Sprintf(
		"/Destiny/%d/Account/%s/Character/%s/?definitions=true",
		accountType,
		url.PathEscape(membershipId),
		url.PathEscape(characterId),
	)
}

func HistoricalStatsPath(accountType MembershipType, membershipId, characterId string) string {
	return fmt.Sprintf(
		"/Destiny/Stats/%d/%s/%s/",
		accountType,
		url.PathEscape(membershipId),
		url.PathEscape(characterId),
	)
}

// XurPath takes no account parameters, the vendor is the same for everyone.
func XurPath() string {
	return "/Destiny/Advisors/Xur/?definitions=true"
}
