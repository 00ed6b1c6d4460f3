package strategy

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"twentyone/internal/game"
)

var ctx = context.Background()

func hand(ranks ...game.Rank) []game.Card {
	cards := make([]game.Card, 0, len(ranks))
	for _, r := range ranks {
		cards = append(cards, game.Card{Rank: r, Suit: game.Hearts})
	}
	return cards
}

func TestThreshold(t *testing.T) {
	d := Threshold{Stop: 17}

	if a, _ := d.Decide(ctx, nil, 16); a != game.Hit {
		t.Fatalf("16: got %s", a)
	}
	if a, _ := d.Decide(ctx, nil, 17); a != game.Stay {
		t.Fatalf("17: got %s", a)
	}
}

func TestScript(t *testing.T) {
	s := NewScript(game.Hit, game.Stay)

	for _, want := range []game.Action{game.Hit, game.Stay} {
		got, err := s.Decide(ctx, nil, 0)
		if err != nil || got != want {
			t.Fatalf("got %v, %v; want %s", got, err, want)
		}
	}
	if _, err := s.Decide(ctx, nil, 0); !errors.Is(err, ErrScriptExhausted) {
		t.Fatalf("expected ErrScriptExhausted, got %v", err)
	}
}

func TestRandomExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	always, never := NewRandom(1, rng), NewRandom(0, rng)

	for i := 0; i < 50; i++ {
		if a, _ := always.Decide(ctx, nil, 0); a != game.Hit {
			t.Fatalf("p=1 returned %s", a)
		}
		if a, _ := never.Decide(ctx, nil, 0); a != game.Stay {
			t.Fatalf("p=0 returned %s", a)
		}
	}
}

func TestParse(t *testing.T) {
	valid := []string{"threshold:17", "random:0.5", "script:hhs", "SCRIPT:s"}
	for _, spec := range valid {
		if _, err := Parse(spec, 21, nil); err != nil {
			t.Fatalf("Parse(%q): %v", spec, err)
		}
	}

	invalid := []string{"threshold:x", "threshold:0", "random:2", "script:hx", "dice:3", "lua:/does/not/exist.lua"}
	for _, spec := range invalid {
		if _, err := Parse(spec, 21, nil); err == nil {
			t.Fatalf("Parse(%q) should fail", spec)
		}
	}
}

const basicLua = `
function decide(total, cards, target)
  if #cards >= 5 then
    return "stay"
  end
  if total < target - 4 then
    return "hit"
  end
  return "stay"
end
`

func TestLuaDecide(t *testing.T) {
	s, err := LoadLuaString(basicLua)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer s.Close()

	if a, err := s.Decide(ctx, hand(game.Ten, game.Six), 16); err != nil || a != game.Hit {
		t.Fatalf("16: got %v, %v", a, err)
	}
	if a, err := s.Decide(ctx, hand(game.Ten, game.Seven), 17); err != nil || a != game.Stay {
		t.Fatalf("17: got %v, %v", a, err)
	}
	if a, err := s.Decide(ctx, hand(game.Two, game.Two, game.Two, game.Two, game.Three), 11); err != nil || a != game.Stay {
		t.Fatalf("five cards: got %v, %v", a, err)
	}

	s.Target = 36
	if a, _ := s.Decide(ctx, hand(game.Ten, game.Ten), 20); a != game.Hit {
		t.Fatalf("20 under 36: got %s", a)
	}
}

func TestLuaCardFields(t *testing.T) {
	s, err := LoadLuaString(`
function decide(total, cards, target)
  if cards[1].rank == "Ace" and cards[1].short == "A♥" then
    return "hit"
  end
  return "stay"
end`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer s.Close()

	if a, _ := s.Decide(ctx, hand(game.Ace, game.Two), 13); a != game.Hit {
		t.Fatalf("got %s", a)
	}
}

func TestLuaInvalidDecision(t *testing.T) {
	for _, src := range []string{
		`function decide() return "double" end`,
		`function decide() return 42 end`,
	} {
		s, err := LoadLuaString(src)
		if err != nil {
			t.Fatalf("load: %v", err)
		}

		if _, err := s.Decide(ctx, nil, 10); !errors.Is(err, game.ErrInvalidDecision) {
			t.Fatalf("%s: expected ErrInvalidDecision, got %v", src, err)
		}
		s.Close()
	}
}

func TestLuaErrors(t *testing.T) {
	if _, err := LoadLuaString(`x = 1`); err == nil {
		t.Fatal("expected error for script without decide")
	}
	if _, err := LoadLuaString(`function decide(`); err == nil {
		t.Fatal("expected syntax error")
	}

	s, err := LoadLuaString(`function decide() error("boom") end`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer s.Close()
	if _, err := s.Decide(ctx, nil, 10); err == nil {
		t.Fatal("expected runtime error")
	}
}

func TestLuaFromFilePlaysRound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.lua")
	if err := os.WriteFile(path, []byte(basicLua), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := Parse("lua:"+path, 21, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer d.(*Lua).Close()

	r, err := game.NewRound(game.Classic, game.NewDeck(rand.New(rand.NewSource(4))), "lua")
	if err != nil {
		t.Fatalf("round: %v", err)
	}
	out, err := r.Play(ctx, d)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if out.PlayerState == game.AwaitingDecision {
		t.Fatal("round ended while awaiting a decision")
	}
}
