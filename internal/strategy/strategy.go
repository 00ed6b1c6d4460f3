// Package strategy provides non-interactive player deciders for scripted
// play and simulation.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"twentyone/internal/game"
)

var ErrScriptExhausted = errors.New("script exhausted")

// Script replays a fixed list of actions.
type Script struct {
	actions []game.Action
	next    int
}

func NewScript(actions ...game.Action) *Script {
	return &Script{actions: actions}
}

func (s *Script) Decide(ctx context.Context, cards []game.Card, total int) (game.Action, error) {
	if s.next >= len(s.actions) {
		return 0, ErrScriptExhausted
	}
	a := s.actions[s.next]
	s.next++
	return a, nil
}

// Threshold hits while the total is below Stop.
type Threshold struct {
	Stop int
}

func (t Threshold) Decide(ctx context.Context, cards []game.Card, total int) (game.Action, error) {
	if total < t.Stop {
		return game.Hit, nil
	}
	return game.Stay, nil
}

// Random hits with probability P.
type Random struct {
	P   float64
	rng *rand.Rand
}

func NewRandom(p float64, rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Random{P: p, rng: rng}
}

func (r *Random) Decide(ctx context.Context, cards []game.Card, total int) (game.Action, error) {
	if r.rng.Float64() < r.P {
		return game.Hit, nil
	}
	return game.Stay, nil
}

// Parse builds a decider from "threshold:17", "random:0.4", "script:hhs" or
// "lua:path/to/strategy.lua". target is passed through to Lua scripts and
// rng seeds the random strategy.
func Parse(spec string, target int, rng *rand.Rand) (game.Decider, error) {
	kind, arg, _ := strings.Cut(spec, ":")

	switch strings.ToLower(kind) {
	case "threshold":
		stop, err := strconv.Atoi(arg)
		if err != nil || stop <= 0 {
			return nil, fmt.Errorf("bad threshold %q", arg)
		}
		return Threshold{Stop: stop}, nil

	case "random":
		p, err := strconv.ParseFloat(arg, 64)
		if err != nil || p < 0 || p > 1 {
			return nil, fmt.Errorf("bad probability %q", arg)
		}
		return NewRandom(p, rng), nil

	case "script":
		actions := make([]game.Action, 0, len(arg))
		for _, ch := range arg {
			a, err := game.ParseAction(string(ch))
			if err != nil {
				return nil, err
			}
			actions = append(actions, a)
		}
		return NewScript(actions...), nil

	case "lua":
		l, err := LoadLua(arg)
		if err != nil {
			return nil, err
		}
		l.Target = target
		return l, nil
	}

	return nil, fmt.Errorf("unknown strategy %q", spec)
}
