package handler

import (
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ravenholt/Emberfell_Go/internal/content"
)

// titleCaser renders authored keys and names for display
var titleCaser = cases.Title(language.English)

// ActionSummary is one row of the action catalog
type ActionSummary struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Family      string `json:"family"`
	Tier        int    `json:"tier"`
	TrackKey    string `json:"track_key"`
}

// MonsterSummary is one row of the bestiary
type MonsterSummary struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	MaxHP       int    `json:"max_hp"`
	DangerTier  int    `json:"danger_tier"`
}

// displayName falls back to a title-cased key when content has no name
func displayName(name, key string) string {
	if name != "" {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// HandleListActions returns the catalog of active actions
func HandleListActions(registry *content.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := registry.ActiveActions()

		summaries := make([]ActionSummary, 0, len(defs))
		for _, def := range defs {
			summaries = append(summaries, ActionSummary{
				Key:         def.Key,
				DisplayName: displayName(def.Name, def.Key),
				Family:      string(def.Family),
				Tier:        def.Tier,
				TrackKey:    def.TrackKey,
			})
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })

		respondJSON(w, http.StatusOK, DataResponse{Data: summaries})
	}
}

// HandleListMonsters returns the bestiary of active monsters
func HandleListMonsters(registry *content.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpls := registry.ActiveMonsters()

		summaries := make([]MonsterSummary, 0, len(tpls))
		for _, tpl := range tpls {
			summaries = append(summaries, MonsterSummary{
				Key:         tpl.Key,
				DisplayName: displayName(tpl.Name, tpl.Key),
				MaxHP:       tpl.MaxHP,
				DangerTier:  tpl.DangerTier,
			})
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })

		respondJSON(w, http.StatusOK, DataResponse{Data: summaries})
	}
}
