package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"twentyone/internal/player"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats [name]",
	Short: "Show the leaderboard or one player's record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadSettings()
		if err != nil {
			return err
		}

		db, repo, err := openRepository(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		if len(args) == 0 {
			return printTop(cmd.OutOrStdout(), repo, statsLimit)
		}
		return printPlayer(cmd.OutOrStdout(), repo, args[0], statsLimit)
	},
}

func init() {
	RootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVarP(&statsLimit, "limit", "l", 10, "Number of rows to show")
}

func printTop(w io.Writer, repo player.Repository, limit int) error {
	stats, err := repo.GetTop(limit)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}

	if len(stats) == 0 {
		fmt.Fprintln(w, "Nobody has played yet.")
		return nil
	}

	color.New(color.FgCyan, color.Bold).Fprintln(w, "Top players:")
	for i, s := range stats {
		fmt.Fprintf(w, "%2d. %-20s %4d wins | %4d games (%.0f%%)\n",
			i+1, s.Name, s.Wins, s.Games, s.WinRate)
	}
	return nil
}

func printPlayer(w io.Writer, repo player.Repository, name string, limit int) error {
	p, err := repo.Get(playerID(name))
	if errors.Is(err, player.ErrNotFound) {
		return fmt.Errorf("no games recorded for %q", name)
	}
	if err != nil {
		return err
	}

	label := color.New(color.FgCyan)
	label.Fprint(w, "Player: ")
	fmt.Fprintln(w, p.Name)
	label.Fprint(w, "Games:  ")
	fmt.Fprintf(w, "%d (wins %d, losses %d, ties %d, %.1f%%)\n",
		p.Games, p.Wins, p.Losses, p.Ties, p.WinRate())

	history, err := repo.History(p.ID, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(history) == 0 {
		return nil
	}

	label.Fprintln(w, "Recent rounds:")
	for _, r := range history {
		fmt.Fprintf(w, "  %2d vs %2d  to %d  winner %s\n",
			r.PlayerTotal, r.DealerTotal, r.TargetScore, r.Winner)
	}
	return nil
}
