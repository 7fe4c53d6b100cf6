// Package catalog loads and indexes the externally supplied skin catalog.
// The catalog is immutable once built; reloading produces a new Catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
)

// characterPattern extracts the owning character identifier from a skin's
// asset path, e.g. "/lol-game-data/assets/ASSETS/Characters/Aatrox/..." -> "Aatrox".
var characterPattern = regexp.MustCompile(`/Characters/([^/]+)/`)

// SkinLine is a grouping tag shared by thematically related skins.
type SkinLine struct {
	ID int `json:"id"`
}

// Skin is one cosmetic variant belonging to exactly one character.
type Skin struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Rarity     Rarity     `json:"rarity"`
	IsLegacy   bool       `json:"isLegacy"`
	SkinLines  []SkinLine `json:"skinLines"`
	SplashPath string     `json:"splashPath"`
}

// CharacterID derives the owning character from the splash path. It returns
// "" when the path doesn't match the expected pattern; such skins are kept in
// the flat catalog but excluded from the character index.
func (s Skin) CharacterID() string {
	m := characterPattern.FindStringSubmatch(s.SplashPath)
	if m == nil {
		return ""
	}
	return m[1]
}

// Character is a skin owner. Name is the identifier from the asset path; the
// catalog carries no richer character metadata.
type Character struct {
	ID   string
	Name string
}

// Catalog is the full immutable set of skins plus a character index used by
// the reward generator.
type Catalog struct {
	skins      map[int]Skin
	flat       []Skin      // all skins, sorted by ID
	characters []Character // only characters owning at least one indexed skin, sorted by ID
	index      map[string][]Skin
}

// New builds a catalog from a flat skin list. Skins without a derivable
// character are excluded from the index but still served.
func New(skins []Skin) *Catalog {
	c := &Catalog{
		skins: make(map[int]Skin, len(skins)),
		index: make(map[string][]Skin),
	}
	for _, s := range skins {
		c.skins[s.ID] = s
	}
	for _, s := range c.skins {
		c.flat = append(c.flat, s)
		if charID := s.CharacterID(); charID != "" {
			c.index[charID] = append(c.index[charID], s)
		}
	}
	sort.Slice(c.flat, func(i, j int) bool { return c.flat[i].ID < c.flat[j].ID })
	for charID := range c.index {
		skins := c.index[charID]
		sort.Slice(skins, func(i, j int) bool { return skins[i].ID < skins[j].ID })
		c.characters = append(c.characters, Character{ID: charID, Name: charID})
	}
	sort.Slice(c.characters, func(i, j int) bool { return c.characters[i].ID < c.characters[j].ID })
	return c
}

// Load reads a skins.json-shaped file: a JSON object mapping skin id to skin
// record.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw skins.json bytes.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]Skin
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	skins := make([]Skin, 0, len(raw))
	for _, s := range raw {
		skins = append(skins, s)
	}
	return New(skins), nil
}

// Skin returns the skin with the given id.
func (c *Catalog) Skin(id int) (Skin, bool) {
	s, ok := c.skins[id]
	return s, ok
}

// Skins returns the id -> skin map served by the catalog endpoint. Callers
// must not mutate it.
func (c *Catalog) Skins() map[int]Skin {
	return c.skins
}

// AllSkins returns every skin sorted by id, including skins with no
// derivable character.
func (c *Catalog) AllSkins() []Skin {
	return c.flat
}

// Characters returns the characters that own at least one indexed skin, in
// deterministic order. Characters with zero skins never appear here, so they
// never enter the selection pool.
func (c *Catalog) Characters() []Character {
	return c.characters
}

// CharacterSkins returns the skins owned by the given character.
func (c *Catalog) CharacterSkins(characterID string) []Skin {
	return c.index[characterID]
}

// Len is the number of skins in the catalog.
func (c *Catalog) Len() int {
	return len(c.skins)
}
