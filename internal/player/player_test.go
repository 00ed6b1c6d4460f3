package player

import (
	"errors"
	"path/filepath"
	"testing"

	"twentyone/internal/database"
	"twentyone/internal/game"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB)
}

func outcome(player, dealer int) game.Outcome {
	return game.Outcome{
		Rules:       game.Classic,
		PlayerTotal: player,
		DealerTotal: dealer,
		PlayerBust:  player > 21,
		DealerBust:  dealer > 21,
		Winner:      game.DecideWinner(player, dealer, 21),
	}
}

func TestGetOrCreate(t *testing.T) {
	repo := newRepo(t)

	p, err := repo.GetOrCreate("alice", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Alice" || p.Games != 0 {
		t.Fatalf("unexpected new player %+v", p)
	}

	p.Wins, p.Games = 2, 3
	if err := repo.Save(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, err := repo.GetOrCreate("alice", "ignored")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Name != "Alice" || again.Wins != 2 || again.Games != 3 {
		t.Fatalf("unexpected stored player %+v", again)
	}
}

func TestRecordAndHistory(t *testing.T) {
	repo := newRepo(t)
	p, err := repo.GetOrCreate("bob", "Bob")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, o := range []game.Outcome{outcome(20, 19), outcome(25, 18), outcome(25, 30), outcome(18, 18)} {
		id, err := repo.Record(p, o)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if id == "" {
			t.Fatal("empty round id")
		}
	}

	if p.Wins != 1 || p.Losses != 1 || p.Ties != 2 || p.Games != 4 {
		t.Fatalf("unexpected tally %+v", p)
	}

	stored, err := repo.GetOrCreate("bob", "Bob")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *stored != *p {
		t.Fatalf("stored %+v, want %+v", stored, p)
	}

	history, err := repo.History("bob", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 rounds, got %d", len(history))
	}
	if history[0].Winner != "None" || history[0].PlayerTotal != 18 {
		t.Fatalf("latest round = %+v", history[0])
	}
	if !history[1].PlayerBust || !history[1].DealerBust {
		t.Fatalf("both-bust round = %+v", history[1])
	}
}

func TestRecordFailureLeavesTallyUnchanged(t *testing.T) {
	repo := newRepo(t)
	p, err := repo.GetOrCreate("carol", "Carol")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.db.Exec(`DROP TABLE rounds`); err != nil {
		t.Fatalf("drop rounds: %v", err)
	}
	if _, err := repo.Record(p, outcome(20, 19)); err == nil {
		t.Fatal("expected record to fail without a rounds table")
	}

	stored, err := repo.Get("carol")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *stored != *p {
		t.Fatalf("in-memory %+v diverged from stored %+v", p, stored)
	}
	if p.Games != 0 || p.Wins != 0 {
		t.Fatalf("failed record changed the tally: %+v", p)
	}
}

func TestGetUnknownPlayer(t *testing.T) {
	repo := newRepo(t)

	if _, err := repo.Get("nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var n int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("Get created %d player rows", n)
	}
}

func TestGetTop(t *testing.T) {
	repo := newRepo(t)

	a, _ := repo.GetOrCreate("a", "A")
	b, _ := repo.GetOrCreate("b", "B")
	repo.GetOrCreate("idle", "Idle")

	repo.Record(a, outcome(20, 19))
	repo.Record(b, outcome(20, 19))
	repo.Record(b, outcome(21, 19))

	top, err := repo.GetTop(10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 ranked players, got %d", len(top))
	}
	if top[0].ID != "b" || top[0].WinRate != 100 {
		t.Fatalf("unexpected leader %+v", top[0])
	}
}

func TestWinRate(t *testing.T) {
	p := &Player{}
	if p.WinRate() != 0 {
		t.Fatal("empty record should have zero win rate")
	}
	p.Apply(game.WinnerPlayer)
	p.Apply(game.WinnerDealer)
	if p.WinRate() != 50 {
		t.Fatalf("win rate = %v", p.WinRate())
	}
}
