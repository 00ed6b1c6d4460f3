package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"twentyone/internal/config"
	"twentyone/internal/database"
	"twentyone/internal/game"
	"twentyone/internal/player"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	mu       sync.Mutex
	messages chan string
	answers  []string
}

func newFakeSender() *fakeSender {
	return &fakeSender{messages: make(chan string, 32)}
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages <- msg.Text
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.mu.Lock()
		f.answers = append(f.answers, cb.Text)
		f.mu.Unlock()
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) next(t *testing.T) string {
	t.Helper()
	select {
	case text := <-f.messages:
		return text
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return ""
}

func newTestHandler(t *testing.T) (*Handler, *fakeSender, *player.SQLiteRepository) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := player.NewRepository(db.DB)
	sender := newFakeSender()
	cfg := &config.Config{TargetScore: 21, DealerStop: 17, TopLimit: 10}

	return NewHandler(context.Background(), sender, cfg, repo), sender, repo
}

func TestSessionDecide(t *testing.T) {
	round, _ := game.NewRound(game.Classic, nil, "")
	prompted := make(chan int, 1)
	s := NewSession(context.Background(), 1, round, func(cards []game.Card, total int) {
		prompted <- total
	})

	result := make(chan game.Action, 1)
	go func() {
		a, err := s.Decide(context.Background(), nil, 15)
		if err != nil {
			t.Errorf("decide: %v", err)
		}
		result <- a
	}()

	if total := <-prompted; total != 15 {
		t.Fatalf("prompted with %d", total)
	}
	if !s.Submit(game.Stay) {
		t.Fatal("decision rejected by an active session")
	}

	if a := <-result; a != game.Stay {
		t.Fatalf("got %s, want stay", a)
	}
}

func TestSubmitWaitsForSlowPrompt(t *testing.T) {
	round, _ := game.NewRound(game.Classic, nil, "")
	release := make(chan struct{})
	s := NewSession(context.Background(), 1, round, func(cards []game.Card, total int) {
		<-release
	})

	result := make(chan game.Action, 1)
	go func() {
		a, _ := s.Decide(context.Background(), nil, 12)
		result <- a
	}()

	accepted := make(chan bool, 1)
	go func() { accepted <- s.Submit(game.Hit) }()

	time.Sleep(10 * time.Millisecond)
	close(release)

	if !<-accepted {
		t.Fatal("tap during the prompt was rejected")
	}
	if a := <-result; a != game.Hit {
		t.Fatalf("got %s, want hit", a)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	round, _ := game.NewRound(game.Classic, nil, "")
	s := NewSession(context.Background(), 1, round, nil)
	s.Stop()

	if s.Submit(game.Hit) {
		t.Fatal("stopped session accepted a decision")
	}
}

func TestManagerReplaceStopsOldSession(t *testing.T) {
	m := NewManager()
	round, _ := game.NewRound(game.Classic, nil, "")

	old := NewSession(context.Background(), 7, round, nil)
	m.Set(old)

	errc := make(chan error, 1)
	go func() {
		_, err := old.Decide(old.ctx, nil, 12)
		errc <- err
	}()

	m.Set(NewSession(context.Background(), 7, round, nil))

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("old session was not stopped")
	}

	m.Delete(old)
	if m.Len() != 1 {
		t.Fatalf("deleting a replaced session removed the current one")
	}
}

func TestPlayRoundThroughHandler(t *testing.T) {
	h, sender, repo := newTestHandler(t)
	const chatID = 42

	h.HandlePlay(chatID, "Ada", nil)

	var end string
	for end == "" {
		text := sender.next(t)
		if strings.Contains(text, "?]") {
			s := h.games.Get(chatID)
			if s == nil {
				t.Fatal("no session while prompting")
			}
			if !s.Submit(game.Stay) {
				t.Fatal("session rejected the decision")
			}
			continue
		}
		end = text
	}

	if !strings.Contains(end, "Дилер:") || !strings.Contains(end, "Побед:") {
		t.Fatalf("unexpected end message:\n%s", end)
	}

	p, err := repo.GetOrCreate(playerKey(chatID), "Ada")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if p.Games != 1 {
		t.Fatalf("expected one recorded game, got %d", p.Games)
	}

	deadline := time.Now().Add(5 * time.Second)
	for h.games.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("finished session was not removed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestCallbackWithoutGame(t *testing.T) {
	h, sender, _ := newTestHandler(t)

	h.HandleCallback(&tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    CallbackHit,
		From:    &tgbotapi.User{FirstName: "Ada"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}},
	})

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.answers) != 1 || sender.answers[0] != "Игра не активна" {
		t.Fatalf("unexpected answers %q", sender.answers)
	}
}

func TestPlayRejectsUnknownVariant(t *testing.T) {
	h, sender, _ := newTestHandler(t)

	h.HandlePlay(3, "Ada", []string{"99"})

	if text := sender.next(t); !strings.Contains(text, "Неизвестный вариант") {
		t.Fatalf("unexpected reply %q", text)
	}
	if h.games.Len() != 0 {
		t.Fatal("no session should start for an unknown variant")
	}
}

func TestHandleMessageTop(t *testing.T) {
	h, sender, _ := newTestHandler(t)

	h.HandleMessage(&tgbotapi.Message{
		Text: "/top",
		Chat: &tgbotapi.Chat{ID: 9},
	})

	if text := sender.next(t); text != "🏆 Пока никто не играл!" {
		t.Fatalf("unexpected reply %q", text)
	}
}

func TestFormatGameEnd(t *testing.T) {
	tests := []struct {
		outcome game.Outcome
		want    string
	}{
		{game.Outcome{PlayerBust: true, DealerBust: true, Winner: game.WinnerNone}, "Оба перебрали"},
		{game.Outcome{PlayerBust: true, Winner: game.WinnerDealer}, "Перебор"},
		{game.Outcome{DealerBust: true, Winner: game.WinnerPlayer}, "Дилер перебрал"},
		{game.Outcome{PlayerState: game.ExactWin, Rules: game.Classic, Winner: game.WinnerPlayer}, "Ровно 21"},
		{game.Outcome{PlayerTotal: 20, DealerTotal: 20}, "Ничья"},
	}

	for _, tt := range tests {
		if got := formatGameEnd(tt.outcome, nil); !strings.Contains(got, tt.want) {
			t.Fatalf("expected %q in %q", tt.want, got)
		}
	}
}
