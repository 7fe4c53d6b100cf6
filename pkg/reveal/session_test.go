package reveal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yboost/yboost/pkg/catalog"
)

func pack(names ...string) []catalog.Skin {
	out := make([]catalog.Skin, 0, len(names))
	for i, n := range names {
		out = append(out, catalog.Skin{ID: i + 1, Name: n, Rarity: catalog.RarityStandard})
	}
	return out
}

func TestNewSessionFiltersUnnamedSkins(t *testing.T) {
	s, err := NewSession([]catalog.Skin{
		{ID: 1, Name: "Keeper"},
		{ID: 2}, // unnamed, dropped
		{ID: 3, Name: "Also Keeper"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, StateStaged, s.State())
}

func TestNewSessionEmptyPack(t *testing.T) {
	_, err := NewSession(nil)
	assert.ErrorIs(t, err, ErrEmptyPack)

	_, err = NewSession([]catalog.Skin{{ID: 1}, {ID: 2}})
	assert.ErrorIs(t, err, ErrEmptyPack)
}

func TestRevealIdempotent(t *testing.T) {
	s, err := NewSession(pack("a", "b", "c"))
	require.NoError(t, err)

	flipped, err := s.Reveal(0)
	require.NoError(t, err)
	assert.True(t, flipped)
	assert.Equal(t, StatePartiallyRevealed, s.State())
	assert.Equal(t, 1, s.RevealedCount())

	// Revealing the same card again is a no-op.
	flipped, err = s.Reveal(0)
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.Equal(t, 1, s.RevealedCount())
	assert.Equal(t, StatePartiallyRevealed, s.State())
}

func TestRevealOutOfRange(t *testing.T) {
	s, _ := NewSession(pack("a"))
	_, err := s.Reveal(5)
	assert.Error(t, err)
	_, err = s.Reveal(-1)
	assert.Error(t, err)
}

func TestLastRevealTransitionsToFullyRevealed(t *testing.T) {
	s, _ := NewSession(pack("a", "b"))
	s.Reveal(0)
	assert.Equal(t, StatePartiallyRevealed, s.State())
	s.Reveal(1)
	assert.Equal(t, StateFullyRevealed, s.State())
	assert.True(t, s.AllRevealed())
}

func TestRevealAll(t *testing.T) {
	s, _ := NewSession(pack("a", "b", "c", "d"))
	s.Reveal(2)
	assert.Equal(t, 3, s.RevealAll())
	assert.Equal(t, StateFullyRevealed, s.State())
	// Nothing left to flip.
	assert.Equal(t, 0, s.RevealAll())
}

func TestCommitOnlyFromFullyRevealed(t *testing.T) {
	s, _ := NewSession(pack("a", "b"))
	assert.ErrorIs(t, s.BeginCommit(), ErrNotFullyRevealed)

	s.RevealAll()
	require.NoError(t, s.BeginCommit())
	assert.Equal(t, StateCommitting, s.State())
}

func TestCommitOnce(t *testing.T) {
	s, _ := NewSession(pack("a"))
	s.RevealAll()
	require.NoError(t, s.BeginCommit())

	// A second commit attempt is structurally rejected.
	assert.ErrorIs(t, s.BeginCommit(), ErrCommitDone)

	require.NoError(t, s.CommitSucceeded())
	assert.Equal(t, StateClosed, s.State())
	assert.ErrorIs(t, s.BeginCommit(), ErrCommitDone)
}

func TestCommitFailedKeepsStagedSet(t *testing.T) {
	s, _ := NewSession(pack("a", "b"))
	s.RevealAll()
	require.NoError(t, s.BeginCommit())

	storeErr := errors.New("store unreachable")
	s.CommitFailed(storeErr)

	// The session returns to FullyRevealed with the award intact so the
	// user can retry the close.
	assert.Equal(t, StateFullyRevealed, s.State())
	assert.Equal(t, storeErr, s.LastErr())
	assert.Equal(t, 2, s.Len())

	// Retry succeeds.
	require.NoError(t, s.BeginCommit())
	require.NoError(t, s.CommitSucceeded())
	assert.Equal(t, StateClosed, s.State())
}

func TestCommitSucceededRequiresCommitting(t *testing.T) {
	s, _ := NewSession(pack("a"))
	assert.Error(t, s.CommitSucceeded())
}

func TestRevealRejectedWhileCommitting(t *testing.T) {
	s, _ := NewSession(pack("a"))
	s.RevealAll()
	s.BeginCommit()
	_, err := s.Reveal(0)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	s, _ := NewSession(pack("a"))
	s.Discard()
	assert.Equal(t, StateClosed, s.State())
	assert.ErrorIs(t, s.BeginCommit(), ErrCommitDone)
}

func TestSummary(t *testing.T) {
	s, err := NewSession([]catalog.Skin{
		{ID: 1, Name: "a", Rarity: catalog.RarityEpic},
		{ID: 2, Name: "b", Rarity: catalog.RarityEpic},
		{ID: 3, Name: "c", Rarity: catalog.RarityUltimate},
	})
	require.NoError(t, err)
	assert.Equal(t, map[catalog.Rarity]int{
		catalog.RarityEpic:     2,
		catalog.RarityUltimate: 1,
	}, s.Summary())
}
