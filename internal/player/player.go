package player

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"twentyone/internal/game"
)

var ErrNotFound = errors.New("player not found")

type Player struct {
	ID     string
	Name   string
	Wins   int
	Losses int
	Ties   int
	Games  int
}

type Stats struct {
	ID      string
	Name    string
	Wins    int
	Games   int
	WinRate float64
}

// RoundRecord is one stored round result.
type RoundRecord struct {
	ID          string
	PlayerTotal int
	DealerTotal int
	PlayerBust  bool
	DealerBust  bool
	Winner      string
	TargetScore int
	DealerStop  int
}

type Repository interface {
	Get(id string) (*Player, error)
	GetOrCreate(id, name string) (*Player, error)
	Save(player *Player) error
	Record(player *Player, outcome game.Outcome) (string, error)
	GetTop(limit int) ([]Stats, error)
	History(id string, limit int) ([]RoundRecord, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get loads a stored player. It returns ErrNotFound for an unknown id.
func (r *SQLiteRepository) Get(id string) (*Player, error) {
	player := &Player{ID: id}

	err := r.db.QueryRow(`
		SELECT name, wins, losses, ties, games
		FROM players WHERE id = ?
	`, id).Scan(
		&player.Name, &player.Wins, &player.Losses,
		&player.Ties, &player.Games,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *SQLiteRepository) GetOrCreate(id, name string) (*Player, error) {
	player, err := r.Get(id)
	if errors.Is(err, ErrNotFound) {
		player = &Player{ID: id, Name: name}

		_, err = r.db.Exec(`
			INSERT INTO players (id, name)
			VALUES (?, ?)
		`, id, name)

		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return player, nil
	}

	if err != nil {
		return nil, err
	}

	return player, nil
}

func (r *SQLiteRepository) Save(player *Player) error {
	_, err := r.db.Exec(`
		UPDATE players SET
			name = ?, wins = ?, losses = ?, ties = ?,
			games = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, player.Name, player.Wins, player.Losses, player.Ties,
		player.Games, player.ID)

	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// Record applies the outcome to the player's tally and stores the round in
// one transaction. It returns the new round id. player is only updated once
// the transaction commits.
func (r *SQLiteRepository) Record(player *Player, outcome game.Outcome) (string, error) {
	next := *player
	next.Apply(outcome.Winner)
	roundID := uuid.NewString()

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE players SET
			wins = ?, losses = ?, ties = ?, games = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, next.Wins, next.Losses, next.Ties, next.Games, next.ID)
	if err != nil {
		return "", fmt.Errorf("failed to save player: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO rounds (
			id, player_id, target_score, dealer_stop,
			player_total, dealer_total, player_bust, dealer_bust, winner
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, roundID, next.ID, outcome.Rules.TargetScore, outcome.Rules.DealerStop,
		outcome.PlayerTotal, outcome.DealerTotal, outcome.PlayerBust, outcome.DealerBust,
		outcome.Winner.String())
	if err != nil {
		return "", fmt.Errorf("failed to insert round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit round: %w", err)
	}
	*player = next
	return roundID, nil
}

func (r *SQLiteRepository) GetTop(limit int) ([]Stats, error) {
	rows, err := r.db.Query(`
		SELECT id, name, wins, games
		FROM players
		WHERE games > 0
		ORDER BY wins DESC, games ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.ID, &s.Name, &s.Wins, &s.Games); err != nil {
			return nil, err
		}
		if s.Games > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Games) * 100
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (r *SQLiteRepository) History(id string, limit int) ([]RoundRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, player_total, dealer_total, player_bust, dealer_bust,
			winner, target_score, dealer_stop
		FROM rounds
		WHERE player_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RoundRecord
	for rows.Next() {
		var rr RoundRecord
		if err := rows.Scan(&rr.ID, &rr.PlayerTotal, &rr.DealerTotal, &rr.PlayerBust,
			&rr.DealerBust, &rr.Winner, &rr.TargetScore, &rr.DealerStop); err != nil {
			return nil, err
		}
		records = append(records, rr)
	}

	return records, rows.Err()
}

// Apply counts one finished round.
func (p *Player) Apply(w game.Winner) {
	switch w {
	case game.WinnerPlayer:
		p.AddWin()
	case game.WinnerDealer:
		p.AddLoss()
	default:
		p.AddTie()
	}
}

func (p *Player) AddWin() {
	p.Wins++
	p.Games++
}

func (p *Player) AddLoss() {
	p.Losses++
	p.Games++
}

func (p *Player) AddTie() {
	p.Ties++
	p.Games++
}

func (p *Player) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games) * 100
}
