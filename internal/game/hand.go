package game

// Hand is the ordered set of cards a party holds. Total is recomputed on
// every Add.
type Hand struct {
	cards  []Card
	total  int
	target int
}

func NewHand(target int) *Hand {
	return &Hand{
		cards:  make([]Card, 0, 10),
		target: target,
	}
}

func (h *Hand) Add(c Card) int {
	h.cards = append(h.cards, c)
	h.total = ComputeTotal(h.cards, h.target)
	return h.total
}

// Clear empties the hand for the next round.
func (h *Hand) Clear() {
	h.cards = h.cards[:0]
	h.total = 0
}

func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Len() int {
	return len(h.cards)
}

func (h *Hand) Total() int {
	return h.total
}

func (h *Hand) Target() int {
	return h.target
}

func (h *Hand) IsBust() bool {
	return IsBust(h.total, h.target)
}

func (h *Hand) IsExact() bool {
	return IsExact(h.total, h.target)
}

type Role int

const (
	RolePlayer Role = iota
	RoleDealer
)

func (r Role) String() string {
	if r == RoleDealer {
		return "Dealer"
	}
	return "Player"
}

type Party struct {
	Name string
	Role Role
	Hand *Hand
}

func NewParty(name string, role Role, target int) *Party {
	if name == "" {
		name = role.String()
	}
	return &Party{
		Name: name,
		Role: role,
		Hand: NewHand(target),
	}
}

func (p *Party) Total() int {
	return p.Hand.Total()
}

func (p *Party) String() string {
	return p.Name
}

func (p *Party) draw(d *Deck) (Card, error) {
	card, err := d.Draw()
	if err != nil {
		return Card{}, err
	}
	p.Hand.Add(card)
	return card, nil
}
