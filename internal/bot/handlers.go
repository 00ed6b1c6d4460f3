package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"twentyone/internal/config"
	"twentyone/internal/game"
	"twentyone/internal/player"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Telegram API the handler talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot     Sender
	cfg     *config.Config
	players player.Repository
	games   *Manager
	ctx     context.Context
}

func NewHandler(ctx context.Context, bot Sender, cfg *config.Config, repo player.Repository) *Handler {
	return &Handler{
		bot:     bot,
		cfg:     cfg,
		players: repo,
		games:   NewManager(),
		ctx:     ctx,
	}
}

// ============== ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ ==============

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
}

func playerKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (h *Handler) getPlayer(chatID int64, name string) (*player.Player, error) {
	return h.players.GetOrCreate(playerKey(chatID), name)
}

// ============== ФОРМАТИРОВАНИЕ ==============

func formatCards(cards []game.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Short()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatGameStatus(dealerFirst game.Card, cards []game.Card, total int) string {
	return fmt.Sprintf("🎴 Вы: %s (%d)\n🃏 Дилер: [%s ?]",
		formatCards(cards), total, dealerFirst.Short())
}

func formatGameEnd(o game.Outcome, p *player.Player) string {
	var result string
	switch {
	case o.PlayerState == game.ExactWin:
		result = fmt.Sprintf("🎰 Ровно %d! Вы выиграли!", o.Rules.TargetScore)
	case o.PlayerBust && o.DealerBust:
		result = "💥 Оба перебрали. Ничья!"
	case o.PlayerBust:
		result = "💥 Перебор! Вы проиграли!"
	case o.DealerBust:
		result = "🎉 Дилер перебрал! Вы выиграли!"
	case o.Winner == game.WinnerPlayer:
		result = "🎉 Вы выиграли!"
	case o.Winner == game.WinnerDealer:
		result = "😔 Дилер выиграл!"
	default:
		result = "🤝 Ничья!"
	}

	msg := fmt.Sprintf("🎴 Вы: %s (%d)\n🃏 Дилер: %s (%d)\n\n%s",
		formatCards(o.PlayerCards), o.PlayerTotal,
		formatCards(o.DealerCards), o.DealerTotal, result)

	if p != nil {
		msg += fmt.Sprintf("\n📊 Побед: %d из %d", p.Wins, p.Games)
	}
	return msg
}

// ============== ОБРАБОТЧИКИ КОМАНД ==============

func (h *Handler) HandleStart(chatID int64, name string) {
	p, err := h.getPlayer(chatID, name)
	if err != nil {
		h.send(chatID, "❌ Ошибка. Попробуйте позже.")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"🎰 Добро пожаловать в %d, %s!\n\n"+
			"🎮 Сыграно игр: %d\n\n"+
			"/play — играть (/play 36 — вариант до 36)\n"+
			"/stats — статистика\n"+
			"/top — топ игроков\n"+
			"/help — правила",
		h.cfg.TargetScore, p.Name, p.Games))
}

func (h *Handler) HandleHelp(chatID int64) {
	rules := h.cfg.Rules()
	h.send(chatID, fmt.Sprintf(
		"📖 Правила:\n\n"+
			"🎯 Цель: набрать %d очков или больше дилера, не перебрав\n\n"+
			"📊 Очки:\n"+
			"• 2-10 — номинал\n"+
			"• J, Q, K — 10\n"+
			"• A — 11 или 1\n\n"+
			"🎮 Действия:\n"+
			"• Hit — взять карту\n"+
			"• Stay — остановиться\n\n"+
			"🃏 Дилер берёт карты, пока у него меньше %d",
		rules.TargetScore, rules.DealerStop))
}

func (h *Handler) HandleStats(chatID int64, name string) {
	p, err := h.getPlayer(chatID, name)
	if err != nil {
		h.send(chatID, "❌ Ошибка")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"📊 Статистика:\n"+
			"🎮 Игр: %d\n"+
			"✅ Побед: %d (%.1f%%)\n"+
			"❌ Поражений: %d\n"+
			"🤝 Ничьих: %d",
		p.Games, p.Wins, p.WinRate(), p.Losses, p.Ties))
}

func (h *Handler) HandleTop(chatID int64) {
	stats, err := h.players.GetTop(h.cfg.TopLimit)
	if err != nil {
		h.send(chatID, "❌ Ошибка")
		return
	}

	if len(stats) == 0 {
		h.send(chatID, "🏆 Пока никто не играл!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Топ игроков:\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			medal = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %s — %d побед | %d игр (%.0f%%)\n",
			medal, s.Name, s.Wins, s.Games, s.WinRate))
	}

	h.send(chatID, sb.String())
}

func (h *Handler) HandlePlay(chatID int64, name string, args []string) {
	p, err := h.getPlayer(chatID, name)
	if err != nil {
		h.send(chatID, "❌ Ошибка")
		return
	}

	rules := h.cfg.Rules()
	if len(args) > 0 {
		preset, ok := game.Variants[args[0]]
		if !ok {
			h.send(chatID, "❌ Неизвестный вариант. Пример: /play 21 или /play 36")
			return
		}
		rules = preset
	}

	round, err := game.NewRound(rules, nil, p.Name)
	if err != nil {
		log.Printf("Failed to start round: %v", err)
		h.send(chatID, "❌ Ошибка")
		return
	}

	var s *Session
	s = NewSession(h.ctx, chatID, round, func(cards []game.Card, total int) {
		dealer := s.Round.Dealer.Hand.Cards()
		h.sendWithKeyboard(chatID, formatGameStatus(dealer[0], cards, total), GameKeyboard())
	})

	h.games.Set(s)
	s.Start(func(o game.Outcome, err error) {
		h.finishRound(s, p, o, err)
	})
}

func (h *Handler) finishRound(s *Session, p *player.Player, o game.Outcome, err error) {
	defer h.games.Delete(s)

	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		log.Printf("Round failed for chat %d: %v", s.ChatID, err)
		h.send(s.ChatID, "❌ Ошибка. Попробуйте /play ещё раз.")
		return
	}

	if _, err := h.players.Record(p, o); err != nil {
		log.Printf("Failed to save player: %v", err)
	}

	h.sendWithKeyboard(s.ChatID, formatGameEnd(o, p), EndGameKeyboard())
}

// ============== ОБРАБОТЧИКИ CALLBACK ==============

func (h *Handler) HandleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	name := callback.From.FirstName

	switch callback.Data {
	case CallbackPlayAgain:
		h.answerCallback(callback.ID, "")
		h.HandlePlay(chatID, name, nil)
		return

	case CallbackStats:
		h.answerCallback(callback.ID, "")
		h.HandleStats(chatID, name)
		return
	}

	var action game.Action
	switch callback.Data {
	case CallbackHit:
		action = game.Hit
	case CallbackStay:
		action = game.Stay
	default:
		h.answerCallback(callback.ID, "")
		return
	}

	s := h.games.Get(chatID)
	if s == nil || !s.Submit(action) {
		h.answerCallback(callback.ID, "Игра не активна")
		return
	}

	h.answerCallback(callback.ID, "")
}

// ============== ОБРАБОТЧИК СООБЩЕНИЙ ==============

func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := msg.Text
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return
	}

	name := ""
	if msg.From != nil {
		name = msg.From.FirstName
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch {
	case cmd == "/start":
		h.HandleStart(chatID, name)
	case cmd == "/help":
		h.HandleHelp(chatID)
	case cmd == "/play":
		h.HandlePlay(chatID, name, args)
	case cmd == "/stats":
		h.HandleStats(chatID, name)
	case cmd == "/top":
		h.HandleTop(chatID)
	}
}
