package bungietest

const (
	HunterHash  uint32 = 671679327
	WarlockHash uint32 = 2271682572
	TitanHash   uint32 = 3655393761
)

type Character struct {
	Id        string
	ClassHash uint32
}

// Guardians is one character of every class, in hunter, warlock, titan order.
var Guardians = []Character{
	{Id: "2305843009260000001", ClassHash: HunterHash},
	{Id: "2305843009260000002", ClassHash: WarlockHash},
	{Id: "2305843009260000003", ClassHash: TitanHash},
}

func characterBase(c Character) map[string]any {
	return map[string]any{
		"characterId": c.Id,
		"classHash":   c.ClassHash,
		"powerLevel":  300,
	}
}

// PlayerPayload is the SearchDestinyPlayer response, one entry per id.
func PlayerPayload(displayName string, membershipIds ...string) []map[string]any {
	out := []map[string]any{}
	for _, id := range membershipIds {
		out = append(out, map[string]any{
			"iconPath":       "/img/theme/destiny/icons/icon_psn.png",
			"membershipType": 2,
			"membershipId":   id,
			"displayName":    displayName,
		})
	}
	return out
}

// SummaryPayload is the account summary response.
func SummaryPayload(membershipId string, characters ...Character) map[string]any {
	list := make([]map[string]any, len(characters))
	for i, c := range characters {
		list[i] = map[string]any{
			"characterBase":   characterBase(c),
			"characterLevel":  40,
			"isPrestigeLevel": false,
		}
	}
	return map[string]any{
		"data": map[string]any{
			"membershipId":  membershipId,
			"characters":    list,
			"grimoireScore": 4520,
		},
		"definitions": map[string]any{
			"classes": map[string]any{
				"671679327":  map[string]any{"className": "Hunter"},
				"2271682572": map[string]any{"className": "Warlock"},
				"3655393761": map[string]any{"className": "Titan"},
			},
		},
	}
}

// CharacterPayload is the character detail response.
func CharacterPayload(c Character) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"characterBase": characterBase(c),
			"levelProgression": map[string]any{
				"level": 40,
			},
		},
		"definitions": map[string]any{
			"items": map[string]any{},
		},
	}
}

// HistoricalPayload is the per character historical stats response.
func HistoricalPayload(c Character) map[string]any {
	return map[string]any{
		"allPvP": map[string]any{
			"allTime": map[string]any{
				"kills": map[string]any{
					"statId": "kills",
					"basic":  map[string]any{"value": 1024, "displayValue": "1024"},
				},
			},
		},
		"characterId": c.Id,
	}
}

func XurPayload() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"vendorHash": 2796397637,
			"saleItemCategories": []map[string]any{
				{
					"categoryTitle": "Exotic Gear",
					"saleItems": []map[string]any{
						{"item": map[string]any{"itemHash": 1274330687}},
					},
				},
			},
		},
		"definitions": map[string]any{
			"items": map[string]any{
				"1274330687": map[string]any{"itemName": "Gjallarhorn"},
			},
		},
	}
}
