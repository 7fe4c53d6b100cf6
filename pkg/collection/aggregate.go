// Package collection turns raw owned-skin records, duplicates and all, into
// the aggregated view the client renders: one entry per unique skin with a
// copy count, plus rarity statistics and name/rarity filtering.
package collection

import (
	"strings"
	"time"

	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/database/models"
)

// Entry is one unique skin in the aggregated view. Count is how many copies
// the user owns; ObtainedAt is the most recent acquisition.
type Entry struct {
	SkinID     int
	Name       string
	Rarity     catalog.Rarity
	Count      int
	ObtainedAt time.Time
}

// Collection is the aggregated view of one user's records.
type Collection struct {
	Entries []Entry
}

// Aggregate groups records by skin id, preserving the order of first
// appearance. Records are expected most-recent-first, so each entry's name,
// rarity and timestamp come from the newest copy.
func Aggregate(records []models.OwnedSkin) Collection {
	byID := make(map[int]int) // skin id -> index into entries
	var entries []Entry
	for _, r := range records {
		if i, ok := byID[r.SkinID]; ok {
			entries[i].Count++
			continue
		}
		byID[r.SkinID] = len(entries)
		entries = append(entries, Entry{
			SkinID:     r.SkinID,
			Name:       r.SkinName,
			Rarity:     catalog.ParseRarity(r.Rarity),
			Count:      1,
			ObtainedAt: r.CreatedAt,
		})
	}
	return Collection{Entries: entries}
}

// UniqueCount is the number of distinct skins owned.
func (c Collection) UniqueCount() int {
	return len(c.Entries)
}

// TotalCount is the number of copies owned across all skins.
func (c Collection) TotalCount() int {
	total := 0
	for _, e := range c.Entries {
		total += e.Count
	}
	return total
}

// LegendaryCount counts legendary copies. Duplicates stack, so this is over
// total copies, not unique entries.
func (c Collection) LegendaryCount() int {
	n := 0
	for _, e := range c.Entries {
		if e.Rarity == catalog.RarityLegendary {
			n += e.Count
		}
	}
	return n
}

// MythicPlusCount counts mythic and ultimate copies.
func (c Collection) MythicPlusCount() int {
	n := 0
	for _, e := range c.Entries {
		if e.Rarity.MythicOrAbove() {
			n += e.Count
		}
	}
	return n
}

// Filter returns the entries matching both predicates: a case-insensitive
// substring match on the display name, and an exact rarity match when rarity
// is not RarityNone.
func (c Collection) Filter(query string, rarity catalog.Rarity) []Entry {
	query = strings.ToLower(query)
	var out []Entry
	for _, e := range c.Entries {
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		if rarity != catalog.RarityNone && e.Rarity != rarity {
			continue
		}
		out = append(out, e)
	}
	return out
}
