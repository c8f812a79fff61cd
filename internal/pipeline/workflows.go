package pipeline

import (
	"destinystats/internal/bungie"
	"destinystats/lib/telemetry"
)

// CharacterStatsWorkflow resolves the account and collects the stats of the
// characters of the selected classes.
func CharacterStatsWorkflow(fetcher bungie.Fetcher, tel telemetry.API, config CharacterStatsConfig) Pipeline {
	stages := []Stage{NewResolveMembership(fetcher)}
	if config.Strategy == StatsPerCharacter {
		stages = append(stages, NewEnumerateCharacters(fetcher, EnumerateIdsOnly))
	}
	stages = append(stages, config.Stage(fetcher))
	return New(tel, stages...)
}

// HistoricalStatsWorkflow resolves the account and collects the historical
// stats of the characters of the selected classes.
func HistoricalStatsWorkflow(fetcher bungie.Fetcher, tel telemetry.API, config HistoricalStatsConfig) Pipeline {
	return New(
		tel,
		NewResolveMembership(fetcher),
		NewEnumerateCharacters(fetcher, EnumerateIdsAndClasses),
		config.Stage(fetcher),
		Activities{},
	)
}

func FeaturedVendorWorkflow(fetcher bungie.Fetcher, tel telemetry.API) Pipeline {
	return New(tel, NewFeaturedVendor(fetcher))
}
