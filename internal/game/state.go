package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDecision = errors.New("invalid decision")
	ErrOutOfTurn       = errors.New("action out of turn")
)

type Action int

const (
	Hit Action = iota + 1
	Stay
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stay:
		return "stay"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (a Action) Valid() bool {
	return a == Hit || a == Stay
}

// ParseAction accepts h/hit and s/stay/stand in any case.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "hit":
		return Hit, nil
	case "s", "stay", "stand":
		return Stay, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDecision, s)
}

// Decider supplies the player's hit/stay choices. Decide may block for as
// long as it likes; the round waits.
type Decider interface {
	Decide(ctx context.Context, cards []Card, total int) (Action, error)
}

type DeciderFunc func(ctx context.Context, cards []Card, total int) (Action, error)

func (f DeciderFunc) Decide(ctx context.Context, cards []Card, total int) (Action, error) {
	return f(ctx, cards, total)
}

// Observer is told about cards as they are dealt. Optional.
type Observer interface {
	OnDeal(r *Round)
	OnPlayerHit(c Card, total int)
	OnDealerHit(c Card, total int)
}

type PlayerState int

const (
	AwaitingDecision PlayerState = iota
	Busted
	ExactWin
	Stayed
)

func (s PlayerState) String() string {
	switch s {
	case AwaitingDecision:
		return "awaiting decision"
	case Busted:
		return "busted"
	case ExactWin:
		return "exact win"
	case Stayed:
		return "stayed"
	}
	return fmt.Sprintf("PlayerState(%d)", int(s))
}

// Terminal reports whether the state ends the round before the dealer plays.
func (s PlayerState) Terminal() bool {
	return s == Busted || s == ExactWin
}

type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayer
	WinnerDealer
)

func (w Winner) String() string {
	switch w {
	case WinnerPlayer:
		return "Player"
	case WinnerDealer:
		return "Dealer"
	}
	return "None"
}

// DecideWinner applies the outcome rules: a lone bust loses, two busts tie,
// otherwise the higher total wins.
func DecideWinner(playerTotal, dealerTotal, target int) Winner {
	playerBust := IsBust(playerTotal, target)
	dealerBust := IsBust(dealerTotal, target)

	switch {
	case playerBust && dealerBust:
		return WinnerNone
	case dealerBust:
		return WinnerPlayer
	case playerBust:
		return WinnerDealer
	case playerTotal > dealerTotal:
		return WinnerPlayer
	case dealerTotal > playerTotal:
		return WinnerDealer
	}
	return WinnerNone
}

type Outcome struct {
	Rules        Rules
	PlayerName   string
	PlayerCards  []Card
	DealerCards  []Card
	PlayerTotal  int
	DealerTotal  int
	PlayerBust   bool
	DealerBust   bool
	PlayerState  PlayerState
	DealerPlayed bool
	Winner       Winner
}

type phase int

const (
	phaseNew phase = iota
	phasePlayer
	phaseDealer
	phaseDone
)

// Round хранит состояние одной партии
type Round struct {
	Rules    Rules
	Deck     *Deck
	Player   *Party
	Dealer   *Party
	Observer Observer

	phase        phase
	state        PlayerState
	dealerPlayed bool
}

// NewRound validates rules and seats a player and a dealer around deck.
// A nil deck gets a freshly shuffled one.
func NewRound(rules Rules, deck *Deck, playerName string) (*Round, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if deck == nil {
		deck = NewDeck(nil)
	}

	return &Round{
		Rules:  rules,
		Deck:   deck,
		Player: NewParty(playerName, RolePlayer, rules.TargetScore),
		Dealer: NewParty("Dealer", RoleDealer, rules.TargetScore),
	}, nil
}

func (r *Round) State() PlayerState {
	return r.state
}

func (r *Round) DealerPlayed() bool {
	return r.dealerPlayed
}

// Deal gives two cards to the player, then two to the dealer.
func (r *Round) Deal() error {
	if r.phase != phaseNew {
		return fmt.Errorf("%w: cards already dealt", ErrOutOfTurn)
	}

	for _, p := range []*Party{r.Player, r.Dealer} {
		for i := 0; i < 2; i++ {
			if _, err := p.draw(r.Deck); err != nil {
				return fmt.Errorf("deal to %s: %w", p.Role, err)
			}
		}
	}

	r.state = r.playerState()
	r.phase = phasePlayer

	if r.Observer != nil {
		r.Observer.OnDeal(r)
	}
	return nil
}

func (r *Round) playerState() PlayerState {
	switch {
	case r.Player.Hand.IsBust():
		return Busted
	case r.Player.Hand.IsExact():
		return ExactWin
	}
	return AwaitingDecision
}

// Hit draws one card for the player and re-evaluates the player's state.
func (r *Round) Hit() (Card, error) {
	if r.phase != phasePlayer || r.state != AwaitingDecision {
		return Card{}, fmt.Errorf("%w: player cannot hit while %s", ErrOutOfTurn, r.state)
	}

	card, err := r.Player.draw(r.Deck)
	if err != nil {
		return Card{}, fmt.Errorf("player hit: %w", err)
	}
	r.state = r.playerState()

	if r.Observer != nil {
		r.Observer.OnPlayerHit(card, r.Player.Total())
	}
	return card, nil
}

func (r *Round) Stay() error {
	if r.phase != phasePlayer || r.state != AwaitingDecision {
		return fmt.Errorf("%w: player cannot stay while %s", ErrOutOfTurn, r.state)
	}
	r.state = Stayed
	return nil
}

// PlayPlayer asks d for decisions until the player busts, hits the target
// exactly, or stays. Decider errors end the turn unchanged.
func (r *Round) PlayPlayer(ctx context.Context, d Decider) error {
	if r.phase != phasePlayer {
		return fmt.Errorf("%w: not the player's turn", ErrOutOfTurn)
	}

	for r.state == AwaitingDecision {
		action, err := d.Decide(ctx, r.Player.Hand.Cards(), r.Player.Total())
		if err != nil {
			return fmt.Errorf("player decision: %w", err)
		}

		switch action {
		case Hit:
			if _, err := r.Hit(); err != nil {
				return err
			}
		case Stay:
			if err := r.Stay(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %v", ErrInvalidDecision, action)
		}
	}

	r.phase = phaseDealer
	return nil
}

// PlayDealer draws for the dealer until DealerStop is reached or the dealer
// busts. It does nothing when the player already busted or hit the target.
func (r *Round) PlayDealer() error {
	if r.phase != phaseDealer {
		return fmt.Errorf("%w: not the dealer's turn", ErrOutOfTurn)
	}
	r.phase = phaseDone

	if r.state.Terminal() {
		return nil
	}
	r.dealerPlayed = true

	for r.Dealer.Total() < r.Rules.DealerStop && !r.Dealer.Hand.IsBust() {
		card, err := r.Dealer.draw(r.Deck)
		if err != nil {
			return fmt.Errorf("dealer hit: %w", err)
		}

		if r.Observer != nil {
			r.Observer.OnDealerHit(card, r.Dealer.Total())
		}
	}
	return nil
}

// Resolve reports the finished round. It fails with ErrOutOfTurn until the
// dealer's turn is over.
func (r *Round) Resolve() (Outcome, error) {
	if r.phase != phaseDone {
		return Outcome{}, fmt.Errorf("%w: round is not finished", ErrOutOfTurn)
	}

	target := r.Rules.TargetScore
	playerTotal, dealerTotal := r.Player.Total(), r.Dealer.Total()

	return Outcome{
		Rules:        r.Rules,
		PlayerName:   r.Player.Name,
		PlayerCards:  r.Player.Hand.Cards(),
		DealerCards:  r.Dealer.Hand.Cards(),
		PlayerTotal:  playerTotal,
		DealerTotal:  dealerTotal,
		PlayerBust:   IsBust(playerTotal, target),
		DealerBust:   IsBust(dealerTotal, target),
		PlayerState:  r.state,
		DealerPlayed: r.dealerPlayed,
		Winner:       DecideWinner(playerTotal, dealerTotal, target),
	}, nil
}

// Play runs deal, player turn, dealer turn and resolution in order.
func (r *Round) Play(ctx context.Context, d Decider) (Outcome, error) {
	if err := r.Deal(); err != nil {
		return Outcome{}, err
	}
	if err := r.PlayPlayer(ctx, d); err != nil {
		return Outcome{}, err
	}
	if err := r.PlayDealer(); err != nil {
		return Outcome{}, err
	}
	return r.Resolve()
}

// Next clears both hands and resets the deck so the round can be replayed.
func (r *Round) Next() {
	r.Player.Hand.Clear()
	r.Dealer.Hand.Clear()
	r.Deck.Reset()

	r.phase = phaseNew
	r.state = AwaitingDecision
	r.dealerPlayed = false
}
