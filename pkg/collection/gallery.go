package collection

import (
	"sort"
	"strings"

	"github.com/yboost/yboost/pkg/catalog"
)

// GalleryEntry is one catalog skin in the browse view, annotated with the
// viewer's ownership.
type GalleryEntry struct {
	Skin   catalog.Skin
	Owned  bool
	Copies int
}

// GalleryFilter narrows the gallery. Zero values mean "no constraint":
// an empty Query, RarityNone, SkinLine 0, and unchecked toggles show the
// whole catalog.
type GalleryFilter struct {
	Query      string
	Rarity     catalog.Rarity
	SkinLine   int
	LegacyOnly bool
	OwnedOnly  bool
}

// Gallery crosses the full catalog with an aggregated collection: every
// catalog skin appears once, marked owned when the collection holds at least
// one copy. Entries keep the catalog's id order.
func Gallery(skins []catalog.Skin, owned Collection) []GalleryEntry {
	copies := make(map[int]int, len(owned.Entries))
	for _, e := range owned.Entries {
		copies[e.SkinID] = e.Count
	}
	out := make([]GalleryEntry, 0, len(skins))
	for _, s := range skins {
		n := copies[s.ID]
		out = append(out, GalleryEntry{Skin: s, Owned: n > 0, Copies: n})
	}
	return out
}

// FilterGallery returns the entries matching every active predicate: name
// substring (case-insensitive), exact rarity, skin line membership, legacy
// flag, ownership.
func FilterGallery(entries []GalleryEntry, f GalleryFilter) []GalleryEntry {
	query := strings.ToLower(f.Query)
	var out []GalleryEntry
	for _, e := range entries {
		if query != "" && !strings.Contains(strings.ToLower(e.Skin.Name), query) {
			continue
		}
		if f.Rarity != catalog.RarityNone && e.Skin.Rarity != f.Rarity {
			continue
		}
		if f.SkinLine != 0 && !inSkinLine(e.Skin, f.SkinLine) {
			continue
		}
		if f.LegacyOnly && !e.Skin.IsLegacy {
			continue
		}
		if f.OwnedOnly && !e.Owned {
			continue
		}
		out = append(out, e)
	}
	return out
}

func inSkinLine(s catalog.Skin, line int) bool {
	for _, l := range s.SkinLines {
		if l.ID == line {
			return true
		}
	}
	return false
}

// SkinLines lists the distinct skin line ids appearing in the entries, in
// ascending order, for the line filter selector.
func SkinLines(entries []GalleryEntry) []int {
	seen := make(map[int]bool)
	for _, e := range entries {
		for _, l := range e.Skin.SkinLines {
			seen[l.ID] = true
		}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
