// Package booster implements the pack reward generator: random selection of
// skins from the catalog for a booster opening.
package booster

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"time"

	"github.com/yboost/yboost/pkg/catalog"
)

// Generator produces booster contents from a catalog. Selection is uniform
// over characters first, then uniform over that character's skins, with
// replacement across slots. Rarity describes the result, it never biases the
// draw.
//
// A Generator is not safe for concurrent use; each caller owns its own.
type Generator struct {
	cat *catalog.Catalog
	rng *mrand.Rand
}

// NewGenerator creates a generator over cat. Pass a nil rng for a
// crypto-seeded source; tests inject a deterministic one.
func NewGenerator(cat *catalog.Catalog, rng *mrand.Rand) *Generator {
	if rng == nil {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
		} else {
			rng = mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
		}
	}
	return &Generator{cat: cat, rng: rng}
}

// Generate returns the contents of one pack of up to n skins. Each slot picks
// a character uniformly among characters with at least one skin, then a skin
// uniformly from that character's list. An empty character index yields an
// empty pack, not an error.
func (g *Generator) Generate(n int) []catalog.Skin {
	out := make([]catalog.Skin, 0, max(n, 0))
	chars := g.cat.Characters()
	if len(chars) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		char := chars[g.rng.Intn(len(chars))]
		skins := g.cat.CharacterSkins(char.ID)
		if len(skins) == 0 {
			// Indexed characters always own a skin; tolerate anyway.
			continue
		}
		out = append(out, skins[g.rng.Intn(len(skins))])
	}
	return out
}

// GenerateUniform picks n skins uniformly over the whole flat skin list,
// ignoring character grouping. Used by the stress-test endpoint.
func (g *Generator) GenerateUniform(n int) []catalog.Skin {
	out := make([]catalog.Skin, 0, max(n, 0))
	all := g.cat.AllSkins()
	if len(all) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		out = append(out, all[g.rng.Intn(len(all))])
	}
	return out
}
