package strategy

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"twentyone/internal/game"
)

// Lua runs a script that defines
//
//	function decide(total, cards, target) ... end
//
// returning "hit" or "stay". cards is a list of tables with rank, suit and
// short fields. A Lua state is not safe for concurrent use.
type Lua struct {
	L      *lua.LState
	Target int
}

func LoadLua(path string) (*Lua, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load lua strategy: %w", err)
	}
	return newLua(L)
}

func LoadLuaString(src string) (*Lua, error) {
	L := lua.NewState()
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load lua strategy: %w", err)
	}
	return newLua(L)
}

func newLua(L *lua.LState) (*Lua, error) {
	if fn, ok := L.GetGlobal("decide").(*lua.LFunction); !ok || fn == nil {
		L.Close()
		return nil, fmt.Errorf("lua strategy does not define decide()")
	}
	return &Lua{L: L, Target: game.Classic.TargetScore}, nil
}

func (s *Lua) Decide(ctx context.Context, cards []game.Card, total int) (game.Action, error) {
	s.L.SetContext(ctx)

	hand := s.L.NewTable()
	for _, c := range cards {
		t := s.L.NewTable()
		t.RawSetString("rank", lua.LString(c.Rank.String()))
		t.RawSetString("suit", lua.LString(c.Suit.String()))
		t.RawSetString("short", lua.LString(c.Short()))
		hand.Append(t)
	}

	err := s.L.CallByParam(lua.P{
		Fn:      s.L.GetGlobal("decide"),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(total), hand, lua.LNumber(s.Target))
	if err != nil {
		return 0, fmt.Errorf("lua decide: %w", err)
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)

	str, ok := ret.(lua.LString)
	if !ok {
		return 0, fmt.Errorf("%w: lua returned %s", game.ErrInvalidDecision, ret.Type())
	}
	return game.ParseAction(string(str))
}

func (s *Lua) Close() {
	s.L.Close()
}
