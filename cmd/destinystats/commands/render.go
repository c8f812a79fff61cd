package commands

import (
	"destinystats/internal/pipeline"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJson(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// characterSummary covers both record shapes, the detail response nests the
// level under levelProgression while summary entries carry characterLevel.
type characterSummary struct {
	CharacterBase struct {
		PowerLevel         int    `json:"powerLevel"`
		MinutesPlayedTotal string `json:"minutesPlayedTotal"`
	} `json:"characterBase"`
	CharacterLevel   int `json:"characterLevel"`
	LevelProgression struct {
		Level int `json:"level"`
	} `json:"levelProgression"`
}

func (c characterSummary) level() int {
	if c.LevelProgression.Level > 0 {
		return c.LevelProgression.Level
	}
	return c.CharacterLevel
}

func renderCharacterStats(w io.Writer, state pipeline.State) error {
	t := newTable(w)
	t.AppendHeader(table.Row{"Character", "Class", "Level", "Light", "Minutes played"})
	for _, stats := range state.CharacterStats {
		var summary characterSummary
		err := json.Unmarshal(stats.Character, &summary)
		if err != nil {
			return fmt.Errorf("decode character %s: %w", stats.CharacterId, err)
		}
		minutes := summary.CharacterBase.MinutesPlayedTotal
		if minutes == "" {
			minutes = "-"
		}
		t.AppendRow(table.Row{
			stats.CharacterId,
			stats.Class,
			summary.level(),
			summary.CharacterBase.PowerLevel,
			minutes,
		})
	}
	t.Render()
	return nil
}

type statValue struct {
	Basic struct {
		DisplayValue string `json:"displayValue"`
	} `json:"basic"`
}

type activityStats struct {
	AllTime map[string]statValue `json:"allTime"`
}

type historicalSummary struct {
	AllPvP activityStats `json:"allPvP"`
	AllPvE activityStats `json:"allPvE"`
}

func displayStat(stats activityStats, id string) string {
	value, ok := stats.AllTime[id]
	if !ok || value.Basic.DisplayValue == "" {
		return "-"
	}
	return value.Basic.DisplayValue
}

func renderHistoricalStats(w io.Writer, state pipeline.State) error {
	t := newTable(w)
	t.AppendHeader(table.Row{"Character", "Class", "PvP kills", "PvP deaths", "PvE kills", "PvE deaths"})
	for _, stats := range state.HistoricalStats {
		var summary historicalSummary
		err := json.Unmarshal(stats.Stats, &summary)
		if err != nil {
			return fmt.Errorf("decode historical stats of %s: %w", stats.CharacterId, err)
		}
		t.AppendRow(table.Row{
			stats.CharacterId,
			stats.Class,
			displayStat(summary.AllPvP, "kills"),
			displayStat(summary.AllPvP, "deaths"),
			displayStat(summary.AllPvE, "kills"),
			displayStat(summary.AllPvE, "deaths"),
		})
	}
	t.Render()
	return nil
}

type xurInventory struct {
	SaleItemCategories []struct {
		CategoryTitle string `json:"categoryTitle"`
		SaleItems     []struct {
			Item struct {
				ItemHash uint32 `json:"itemHash"`
			} `json:"item"`
		} `json:"saleItems"`
	} `json:"saleItemCategories"`
}

type itemDefinitions struct {
	Items map[string]struct {
		ItemName string `json:"itemName"`
	} `json:"items"`
}

func renderXur(w io.Writer, state pipeline.State) error {
	var inventory xurInventory
	if len(state.Xur) > 0 {
		err := json.Unmarshal(state.Xur, &inventory)
		if err != nil {
			return fmt.Errorf("decode xur inventory: %w", err)
		}
	}
	var definitions itemDefinitions
	if len(state.XurDefinitions) > 0 {
		err := json.Unmarshal(state.XurDefinitions, &definitions)
		if err != nil {
			return fmt.Errorf("decode xur definitions: %w", err)
		}
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Item", "Hash"})
	for _, category := range inventory.SaleItemCategories {
		for _, sale := range category.SaleItems {
			hash := sale.Item.ItemHash
			name := definitions.Items[fmt.Sprint(hash)].ItemName
			if name == "" {
				name = "?"
			}
			t.AppendRow(table.Row{category.CategoryTitle, name, hash})
		}
	}
	if len(inventory.SaleItemCategories) == 0 {
		t.AppendRow(table.Row{"-", "xur is not here", "-"})
	}
	t.Render()
	return nil
}

func renderState(w io.Writer, state pipeline.State, render func(io.Writer, pipeline.State) error) error {
	if printJson {
		return writeJson(w, state)
	}
	return render(w, state)
}

// sortedFields is used by the archive listing to show what a stored state
// holds.
func sortedFields(raw json.RawMessage) ([]string, error) {
	var state pipeline.State
	err := json.Unmarshal(raw, &state)
	if err != nil {
		return nil, err
	}
	fields := state.Fields()
	sort.Strings(fields)
	return fields, nil
}
