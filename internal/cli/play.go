package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"twentyone/internal/console"
	"twentyone/internal/game"
	"twentyone/internal/player"
)

var (
	playName   string
	playNoSave bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play rounds interactively against the dealer",
	Long: `Play deals you two cards and shows one of the dealer's. Answer h to hit
or s to stay. The dealer draws once you stay, then the hands are compared.

Examples:
  twentyone play
  twentyone play --variant 36 --name Ada
  twentyone play --dealer-stop 16 --no-save`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, rules, err := loadSettings()
		if err != nil {
			return err
		}

		in := console.New(cmd.InOrStdin(), cmd.OutOrStdout())
		out := console.NewRenderer(cmd.OutOrStdout())
		out.Welcome(rules)

		name := playName
		if name == "" {
			name = cfg.PlayerName
		}
		if name == "" {
			if name, err = in.AskName(); err != nil {
				return err
			}
		}

		var repo player.Repository
		if !playNoSave && cfg.DatabasePath != "" {
			db, r, err := openRepository(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()
			repo = r
		}

		return playRounds(cmd.Context(), rules, name, in, out, repo)
	},
}

func init() {
	RootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVarP(&playName, "name", "n", "", "Player name (asked for when not set)")
	playCmd.Flags().BoolVar(&playNoSave, "no-save", false, "Do not record results")
}

// playRounds runs rounds until the player declines another one.
func playRounds(ctx context.Context, rules game.Rules, name string, in *console.Console, out *console.Renderer, repo player.Repository) error {
	if ctx == nil {
		ctx = context.Background()
	}

	round, err := game.NewRound(rules, nil, name)
	if err != nil {
		return err
	}
	round.Observer = out

	var p *player.Player
	if repo != nil {
		if p, err = repo.GetOrCreate(playerID(name), name); err != nil {
			return err
		}
	}

	for {
		outcome, err := round.Play(ctx, in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("round failed: %w", err)
		}
		out.Outcome(outcome)

		if repo != nil {
			if _, err := repo.Record(p, outcome); err != nil {
				log.Printf("Failed to record round: %v", err)
			}
		}

		again, err := in.AskYesNo("Would you like to play again?")
		if errors.Is(err, io.EOF) || (err == nil && !again) {
			return nil
		}
		if err != nil {
			return err
		}
		round.Next()
	}
}
