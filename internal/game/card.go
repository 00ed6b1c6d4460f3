package game

import "fmt"

type Suit int

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

var suitNames = [...]string{"Diamonds", "Clubs", "Hearts", "Spades"}
var suitSymbols = [...]string{"♦", "♣", "♥", "♠"}

func (s Suit) String() string {
	if s < Diamonds || s > Spades {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

func (s Suit) Symbol() string {
	if s < Diamonds || s > Spades {
		return "?"
	}
	return suitSymbols[s]
}

type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suits и Ranks в порядке построения колоды
var Suits = []Suit{Diamonds, Clubs, Hearts, Spades}

var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

const (
	AceLow  = 1
	AceHigh = 11
)

func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "Jack"
	case r == Queen:
		return "Queen"
	case r == King:
		return "King"
	case r == Ace:
		return "Ace"
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

func (r Rank) short() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	return r.String()
}

// PointValues returns the contributions a rank can make to a total.
// Only the ace has two, low first.
func (r Rank) PointValues() []int {
	switch {
	case r == Ace:
		return []int{AceLow, AceHigh}
	case r >= Jack && r <= King:
		return []int{10}
	default:
		return []int{int(r)}
	}
}

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) PointValues() []int {
	return c.Rank.PointValues()
}

func (c Card) IsAce() bool {
	return c.Rank == Ace
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Short renders the card compactly, e.g. "A♠" or "10♥".
func (c Card) Short() string {
	return c.Rank.short() + c.Suit.Symbol()
}

func (c Card) Article() string {
	if c.Rank == Ace || c.Rank == Eight {
		return "An"
	}
	return "A"
}
