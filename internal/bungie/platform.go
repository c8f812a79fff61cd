package bungie

import (
	"fmt"
	"strconv"
	"strings"
)

// PlatformErrorCodes values, the envelope carries one on every response
const (
	PlatformSuccess          = 1
	PlatformSuccessStatus    = "Success"
	UnhandledException       = 3
	SystemDisabled           = 5
	ParameterInvalidRange    = 8
	InvalidParameters        = 18
	DestinyAccountNotFound   = 1601
	DestinyCharacterNotFound = 1620
	DestinyThrottled         = 1672
)

// MembershipType is the platform an account belongs to, the API calls it
// "accountType" in some places and "membershipType" in others.
type MembershipType int

const (
	MembershipNone     MembershipType = 0
	MembershipXbox     MembershipType = 1
	MembershipPSN      MembershipType = 2
	MembershipSteam    MembershipType = 3
	MembershipBlizzard MembershipType = 4
	MembershipStadia   MembershipType = 5
	MembershipEpic     MembershipType = 6
)

var membershipNames = map[string]MembershipType{
	"xbox":     MembershipXbox,
	"psn":      MembershipPSN,
	"steam":    MembershipSteam,
	"blizzard": MembershipBlizzard,
	"stadia":   MembershipStadia,
	"epic":     MembershipEpic,
}

func (t MembershipType) String() string {
	for name, value := range membershipNames {
		if value == t {
			return name
		}
	}
	return strconv.Itoa(int(t))
}

// ParseMembershipType accepts either a platform name (xbox, psn, ...) or the
// numeric value the API uses.
func ParseMembershipType(s string) (MembershipType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if t, ok := membershipNames[normalized]; ok {
		return t, nil
	}
	n, err := strconv.Atoi(normalized)
	if err != nil {
		return MembershipNone, fmt.Errorf("unknown platform %q", s)
	}
	t := MembershipType(n)
	if t < MembershipXbox || t > MembershipEpic {
		return MembershipNone, fmt.Errorf("platform %d out of range", n)
	}
	return t, nil
}
