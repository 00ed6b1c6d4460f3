package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"twentyone/internal/config"
	"twentyone/internal/database"
	"twentyone/internal/game"
	"twentyone/internal/player"
)

var (
	configPath string
	variant    string
	target     int
	dealerStop int
	dbPath     string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "twentyone",
	Short: "Play twenty-one against the dealer",
	Long: `twentyone is a terminal card game: you and the dealer each draw cards
and try to get closer to the target score than the other without going over.

The classic variant plays to 21 with the dealer stopping at 17; the "36"
variant plays to 36 with the dealer stopping at 32.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.GetConfigFilePath(), "Path to the TOML config file")
	flags.StringVar(&variant, "variant", "", "Rules preset: 21 or 36")
	flags.IntVar(&target, "target", 0, "Target score, overrides the variant")
	flags.IntVar(&dealerStop, "dealer-stop", 0, "Dealer stop threshold, overrides the variant")
	flags.StringVar(&dbPath, "db", "", "sqlite database for results (defaults to the config's database_path)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

func loadSettings() (*config.File, game.Rules, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, game.Rules{}, err
	}

	if variant != "" {
		cfg.Variant = variant
		cfg.TargetScore, cfg.DealerStop = 0, 0
	}
	if target != 0 {
		cfg.TargetScore = target
	}
	if dealerStop != 0 {
		cfg.DealerStop = dealerStop
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, game.Rules{}, err
	}
	return cfg, rules, nil
}

func openRepository(path string) (*database.DB, *player.SQLiteRepository, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, player.NewRepository(db.DB), nil
}

func playerID(name string) string {
	return "cli:" + strings.ToLower(strings.TrimSpace(name))
}
