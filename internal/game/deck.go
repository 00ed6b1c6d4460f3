package game

import (
	"errors"
	"math/rand"
	"time"
)

var ErrEmptyDeck = errors.New("deck is empty")

const DeckSize = 52

type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck builds a shuffled 52-card deck. A nil rng gets a time-seeded source.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	d := &Deck{rng: rng}
	d.Reset()
	return d
}

func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes the top card. The deck is never refilled implicitly.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Reset throws away whatever is left and rebuilds a full shuffled deck.
func (d *Deck) Reset() {
	d.cards = make([]Card, 0, DeckSize)

	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}

	d.Shuffle()
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

func (d *Deck) Contains(c Card) bool {
	for _, card := range d.cards {
		if card == c {
			return true
		}
	}
	return false
}
