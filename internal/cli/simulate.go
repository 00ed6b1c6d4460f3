package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"twentyone/internal/game"
	"twentyone/internal/strategy"
)

var (
	simRounds   int
	simStrategy string
	simSeed     int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play many rounds with a scripted strategy and report the results",
	Long: `Simulate plays rounds without prompting. The player's choices come from
a strategy:

  threshold:N   hit while the total is below N
  random:P      hit with probability P
  script:hhs    fixed sequence of h/s answers for each round
  lua:FILE      a Lua script defining decide(total, cards, target)

Examples:
  twentyone simulate --rounds 10000 --strategy threshold:17
  twentyone simulate --variant 36 --strategy lua:strategies/cautious.lua --seed 7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rules, err := loadSettings()
		if err != nil {
			return err
		}

		seed := simSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		tally, err := simulate(cmd.Context(), rules, simStrategy, simRounds, seed)
		if err != nil {
			return err
		}
		tally.Print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVarP(&simRounds, "rounds", "r", 1000, "Number of rounds to play")
	simulateCmd.Flags().StringVarP(&simStrategy, "strategy", "s", "threshold:17", "Player strategy")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0 picks one from the clock)")
}

type Tally struct {
	Rules        game.Rules
	Rounds       int
	PlayerWins   int
	DealerWins   int
	Ties         int
	PlayerBusts  int
	DealerBusts  int
	ExactWins    int
	PlayerTotals int
}

func (t *Tally) Add(o game.Outcome) {
	t.Rounds++
	t.PlayerTotals += o.PlayerTotal

	switch o.Winner {
	case game.WinnerPlayer:
		t.PlayerWins++
	case game.WinnerDealer:
		t.DealerWins++
	default:
		t.Ties++
	}
	if o.PlayerBust {
		t.PlayerBusts++
	}
	if o.DealerBust {
		t.DealerBusts++
	}
	if o.PlayerState == game.ExactWin {
		t.ExactWins++
	}
}

func (t *Tally) Print(w io.Writer) {
	pct := func(n int) float64 {
		if t.Rounds == 0 {
			return 0
		}
		return float64(n) / float64(t.Rounds) * 100
	}

	head := color.New(color.FgCyan, color.Bold)
	head.Fprintf(w, "%d rounds to %d (dealer stops at %d)\n", t.Rounds, t.Rules.TargetScore, t.Rules.DealerStop)
	color.New(color.FgGreen).Fprintf(w, "Player wins:  %6d (%.1f%%)\n", t.PlayerWins, pct(t.PlayerWins))
	color.New(color.FgRed).Fprintf(w, "Dealer wins:  %6d (%.1f%%)\n", t.DealerWins, pct(t.DealerWins))
	fmt.Fprintf(w, "Ties:         %6d (%.1f%%)\n", t.Ties, pct(t.Ties))
	fmt.Fprintf(w, "Exact wins:   %6d\n", t.ExactWins)
	fmt.Fprintf(w, "Player busts: %6d\n", t.PlayerBusts)
	fmt.Fprintf(w, "Dealer busts: %6d\n", t.DealerBusts)
	if t.Rounds > 0 {
		fmt.Fprintf(w, "Avg player total: %.2f\n", float64(t.PlayerTotals)/float64(t.Rounds))
	}
}

// simulate plays n rounds on one deck, resetting it between rounds. Script
// strategies are rebuilt every round so each round replays the same answers.
func simulate(ctx context.Context, rules game.Rules, spec string, n int, seed int64) (*Tally, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if n <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", n)
	}

	rng := rand.New(rand.NewSource(seed))
	round, err := game.NewRound(rules, game.NewDeck(rng), "Simulator")
	if err != nil {
		return nil, err
	}

	decider, err := strategy.Parse(spec, rules.TargetScore, rng)
	if err != nil {
		return nil, err
	}
	if l, ok := decider.(*strategy.Lua); ok {
		defer l.Close()
	}

	tally := &Tally{Rules: rules}
	for i := 0; i < n; i++ {
		if _, ok := decider.(*strategy.Script); ok {
			if decider, err = strategy.Parse(spec, rules.TargetScore, rng); err != nil {
				return nil, err
			}
		}

		outcome, err := round.Play(ctx, decider)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		tally.Add(outcome)
		round.Next()
	}
	return tally, nil
}
