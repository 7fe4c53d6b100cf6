// Package reveal holds the pack-opening session state machine: staged cards
// are revealed one by one, then the whole set is committed to the collection
// in a single step. The package is UI-free; the terminal client drives it.
package reveal

import (
	"errors"
	"fmt"

	"github.com/yboost/yboost/pkg/catalog"
)

// State is the lifecycle position of a pack-opening session. A session is
// born staged; "idle" is simply the absence of a session.
type State int

const (
	StateStaged State = iota
	StatePartiallyRevealed
	StateFullyRevealed
	StateCommitting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStaged:
		return "staged"
	case StatePartiallyRevealed:
		return "partially_revealed"
	case StateFullyRevealed:
		return "fully_revealed"
	case StateCommitting:
		return "committing"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrEmptyPack is returned when no valid skins survive staging. Nothing is
// committed for such a session.
var ErrEmptyPack = errors.New("no valid skins in pack")

// ErrNotFullyRevealed is returned when commit is requested before every card
// has been revealed.
var ErrNotFullyRevealed = errors.New("pack not fully revealed")

// ErrCommitDone is returned when commit is requested on a session that is
// already committing or closed. Commit-once is structural: there is no
// transition out of StateClosed.
var ErrCommitDone = errors.New("commit already requested")

// Card is one staged award. Revealed flips exactly once.
type Card struct {
	Skin     catalog.Skin
	Revealed bool
}

// Session is a single pack-opening. It must be driven from one goroutine.
type Session struct {
	cards    []Card
	state    State
	revealed int
	lastErr  error
}

// NewSession stages the generated skins for reveal. Awards with a missing
// name are dropped; if nothing survives, ErrEmptyPack is returned and no
// session is created.
func NewSession(skins []catalog.Skin) (*Session, error) {
	s := &Session{state: StateStaged}
	for _, sk := range skins {
		if sk.Name == "" {
			continue
		}
		s.cards = append(s.cards, Card{Skin: sk})
	}
	if len(s.cards) == 0 {
		return nil, ErrEmptyPack
	}
	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Cards returns the staged cards in award order.
func (s *Session) Cards() []Card { return s.cards }

// Len is the number of staged cards.
func (s *Session) Len() int { return len(s.cards) }

// RevealedCount is how many cards have been revealed so far.
func (s *Session) RevealedCount() int { return s.revealed }

// AllRevealed reports whether every staged card has been revealed.
func (s *Session) AllRevealed() bool { return s.revealed == len(s.cards) }

// Reveal flips card i face-up. Revealing an already revealed card is a no-op
// and returns false. The session moves to StateFullyRevealed the moment the
// last card flips.
func (s *Session) Reveal(i int) (bool, error) {
	if s.state != StateStaged && s.state != StatePartiallyRevealed {
		return false, fmt.Errorf("cannot reveal in state %s", s.state)
	}
	if i < 0 || i >= len(s.cards) {
		return false, fmt.Errorf("card index %d out of range", i)
	}
	if s.cards[i].Revealed {
		return false, nil
	}
	s.cards[i].Revealed = true
	s.revealed++
	if s.AllRevealed() {
		s.state = StateFullyRevealed
	} else {
		s.state = StatePartiallyRevealed
	}
	return true, nil
}

// RevealAll flips every remaining card in order and returns how many flipped.
// Any reveal stagger is a presentation concern, not a session one.
func (s *Session) RevealAll() int {
	flipped := 0
	for i := range s.cards {
		if ok, err := s.Reveal(i); err != nil {
			break
		} else if ok {
			flipped++
		}
	}
	return flipped
}

// BeginCommit moves the session into StateCommitting. It is only legal from
// StateFullyRevealed, so a session can never commit twice.
func (s *Session) BeginCommit() error {
	switch s.state {
	case StateFullyRevealed:
		s.state = StateCommitting
		s.lastErr = nil
		return nil
	case StateCommitting, StateClosed:
		return ErrCommitDone
	default:
		return ErrNotFullyRevealed
	}
}

// CommitSucceeded closes the session after a successful store write.
func (s *Session) CommitSucceeded() error {
	if s.state != StateCommitting {
		return fmt.Errorf("commit not in progress (state %s)", s.state)
	}
	s.state = StateClosed
	return nil
}

// CommitFailed records the failure and returns the session to
// StateFullyRevealed. The staged set is kept so the user can attempt the
// close again; the award is only lost by an explicit Discard.
func (s *Session) CommitFailed(err error) {
	if s.state != StateCommitting {
		return
	}
	s.lastErr = err
	s.state = StateFullyRevealed
}

// LastErr is the most recent commit failure, if any.
func (s *Session) LastErr() error { return s.lastErr }

// Discard abandons the session without committing.
func (s *Session) Discard() {
	if s.state != StateClosed {
		s.state = StateClosed
	}
}

// Summary counts the staged awards per rarity, for the post-close toast.
func (s *Session) Summary() map[catalog.Rarity]int {
	out := make(map[catalog.Rarity]int)
	for _, c := range s.cards {
		out[c.Skin.Rarity]++
	}
	return out
}
