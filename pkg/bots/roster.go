package bots

import (
	"encoding/json"
	"fmt"
	"os"
)

// Bot is a static assistant profile. Profiles are configuration only: the
// core never mutates them, and only Name reaches the model (it parameterizes
// the system instruction). Colors and avatar are for the presentation layer.
type Bot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// Roster is the set of available bot profiles.
type Roster struct {
	Bots []Bot `json:"bots"`
}

// defaultRoster is used when no roster file is configured.
var defaultRoster = Roster{Bots: []Bot{
	{ID: "clara", Name: "Clara", Avatar: "clara.png", PrimaryColor: "#4F46E5", SecondaryColor: "#EEF2FF"},
	{ID: "mateo", Name: "Mateo", Avatar: "mateo.png", PrimaryColor: "#059669", SecondaryColor: "#ECFDF5"},
	{ID: "lucia", Name: "Lucía", Avatar: "lucia.png", PrimaryColor: "#D97706", SecondaryColor: "#FFFBEB"},
}}

// Load reads a roster from a JSON file. An empty path returns the built-in
// default roster.
func Load(path string) (*Roster, error) {
	if path == "" {
		r := defaultRoster
		return &r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bots file: %w", err)
	}

	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing bots file %s: %w", path, err)
	}
	if len(r.Bots) == 0 {
		return nil, fmt.Errorf("bots file %s defines no bots", path)
	}
	return &r, nil
}

// Get returns the bot with the given id, or false if absent.
func (r *Roster) Get(id string) (Bot, bool) {
	for _, b := range r.Bots {
		if b.ID == id {
			return b, true
		}
	}
	return Bot{}, false
}
