package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"twentyone/internal/game"
)

const bannerWidth = 35

var (
	label  = color.New(color.FgCyan)
	value  = color.New(color.FgHiWhite)
	warn   = color.New(color.FgRed, color.Bold)
	banner = color.New(color.FgYellow, color.Bold)
)

// Renderer prints a round as it happens. It implements game.Observer.
type Renderer struct {
	out   io.Writer
	width int
}

func NewRenderer(out io.Writer) *Renderer {
	width := bannerWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w < width {
			width = w
		}
	}
	return &Renderer{out: out, width: width}
}

func (r *Renderer) Welcome(rules game.Rules) {
	banner.Fprintf(r.out, "Welcome to %d!\n", rules.TargetScore)
	fmt.Fprintf(r.out, "\tThe goal is to get closer to %d than the dealer without going over.\n", rules.TargetScore)
	fmt.Fprintln(r.out, "\tCards 2-10 are worth their value, face cards are worth 10.")
	fmt.Fprintln(r.out, "\tAces are worth 11 or 1 and are adjusted automatically.")
	fmt.Fprintf(r.out, "\tThe dealer draws until reaching %d.\n\n", rules.DealerStop)
}

func (r *Renderer) OnDeal(round *game.Round) {
	r.hand(round.Player.Name, round.Player.Hand.Cards(), round.Player.Total())

	dealer := round.Dealer.Hand.Cards()
	label.Fprintf(r.out, "The dealer has %d cards. Her first card is: ", len(dealer))
	value.Fprintln(r.out, describe(dealer[0]))
}

func (r *Renderer) OnPlayerHit(c game.Card, total int) {
	label.Fprint(r.out, "New card: ")
	value.Fprintf(r.out, "%s (total %d)\n", describe(c), total)
}

func (r *Renderer) OnDealerHit(c game.Card, total int) {
	label.Fprint(r.out, "Dealer hits... ")
	value.Fprintf(r.out, "%s (total %d)\n", describe(c), total)
}

// Outcome reveals the dealer's hand and announces the result.
func (r *Renderer) Outcome(o game.Outcome) {
	fmt.Fprintln(r.out)
	r.hand("Dealer", o.DealerCards, o.DealerTotal)

	if o.PlayerBust {
		warn.Fprintf(r.out, "%s busts!\n", o.PlayerName)
	}
	if o.DealerBust {
		warn.Fprintln(r.out, "Dealer busts!")
	}

	fmt.Fprintf(r.out, "%s ends with %d points\n", o.PlayerName, o.PlayerTotal)
	fmt.Fprintf(r.out, "Dealer ends with %d points\n", o.DealerTotal)

	r.Banner(WinnerText(o))
}

func (r *Renderer) Banner(text string) {
	line := strings.Repeat("*", r.width)
	pad := (r.width - len([]rune(text))) / 2
	if pad < 0 {
		pad = 0
	}

	fmt.Fprintln(r.out)
	banner.Fprintln(r.out, line)
	banner.Fprintln(r.out, strings.Repeat(" ", pad)+text)
	banner.Fprintln(r.out, line)
	fmt.Fprintln(r.out)
}

func (r *Renderer) hand(name string, cards []game.Card, total int) {
	label.Fprintf(r.out, "%s has %d cards worth %d points:\n", name, len(cards), total)
	for _, c := range cards {
		value.Fprintf(r.out, "\t%s\n", describe(c))
	}
}

func describe(c game.Card) string {
	return c.Article() + " " + c.String()
}

func WinnerText(o game.Outcome) string {
	switch o.Winner {
	case game.WinnerPlayer:
		return fmt.Sprintf("Winner: %s", o.PlayerName)
	case game.WinnerDealer:
		return "Winner: Dealer"
	}
	return "Tie game!"
}
