package catalog

import "encoding/json"

// Rarity is the closed set of skin scarcity tiers. The values are the wire
// tags used by the upstream skin data, so a Rarity can be stored and compared
// as-is against catalog JSON and persisted snapshots.
type Rarity string

const (
	RarityStandard  Rarity = "kNoRarity"
	RarityEpic      Rarity = "kEpic"
	RarityLegendary Rarity = "kLegendary"
	RarityMythic    Rarity = "kMythic"
	RarityUltimate  Rarity = "kUltimate"
)

// RarityNone marks "no rarity filter" in filtering APIs.
const RarityNone Rarity = ""

// Rarities lists all tiers in ascending scarcity order. The ordering is
// presentational only; selection odds never depend on rarity.
var Rarities = []Rarity{
	RarityStandard,
	RarityEpic,
	RarityLegendary,
	RarityMythic,
	RarityUltimate,
}

type rarityInfo struct {
	label string
	color string
	glow  string
}

var rarityTable = map[Rarity]rarityInfo{
	RarityStandard:  {label: "Standard", color: "#6b7280", glow: "#9ca3af"},
	RarityEpic:      {label: "Epic", color: "#a855f7", glow: "#c084fc"},
	RarityLegendary: {label: "Legendary", color: "#f59e0b", glow: "#fbbf24"},
	RarityMythic:    {label: "Mythic", color: "#ef4444", glow: "#fca5a5"},
	RarityUltimate:  {label: "Ultimate", color: "#ff1493", glow: "#ff69b4"},
}

// ParseRarity maps a wire tag to a Rarity. Unknown or empty tags fall back to
// RarityStandard, matching how the catalog treats untagged skins.
func ParseRarity(tag string) Rarity {
	r := Rarity(tag)
	if _, ok := rarityTable[r]; ok {
		return r
	}
	return RarityStandard
}

// Valid reports whether r is one of the known tiers.
func (r Rarity) Valid() bool {
	_, ok := rarityTable[r]
	return ok
}

// Label returns the display name for the tier.
func (r Rarity) Label() string {
	if info, ok := rarityTable[r]; ok {
		return info.label
	}
	return rarityTable[RarityStandard].label
}

// Color returns the border color hex string for the tier.
func (r Rarity) Color() string {
	if info, ok := rarityTable[r]; ok {
		return info.color
	}
	return rarityTable[RarityStandard].color
}

// Glow returns the glow color hex string for the tier.
func (r Rarity) Glow() string {
	if info, ok := rarityTable[r]; ok {
		return info.glow
	}
	return rarityTable[RarityStandard].glow
}

// MythicOrAbove reports whether the tier counts toward the "mythic+" stat.
func (r Rarity) MythicOrAbove() bool {
	return r == RarityMythic || r == RarityUltimate
}

// UnmarshalJSON normalizes unknown tags to RarityStandard so a catalog file
// with missing or unexpected rarity fields still loads.
func (r *Rarity) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	*r = ParseRarity(tag)
	return nil
}
