package admin

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/yoke/internal/bot"
	"github.com/sukalov/yoke/internal/bot/common"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/state"
)

type AdminHandlers struct {
	sessions *state.StateManager
	admins   map[string]bool

	mu             sync.Mutex
	stopInProgress bool
}

func adminSet(usernames []string) map[string]bool {
	admins := make(map[string]bool)
	for _, username := range usernames {
		if username != "" {
			admins[username] = true
		}
	}
	return admins
}

// isAdmin reports whether the update's sender is listed. Senders without a
// username, or updates without a sender, never are.
func isAdmin(admins map[string]bool, update tgbotapi.Update) bool {
	username := bot.Username(update)
	return username != "" && admins[username]
}

func NewAdminHandlers(sessions *state.StateManager, adminUsernames []string) *AdminHandlers {
	return &AdminHandlers{
		sessions: sessions,
		admins:   adminSet(adminUsernames),
	}
}

func (h *AdminHandlers) stopAllHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if !isAdmin(h.admins, update) {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	n := len(h.sessions.GetAll())
	if n == 0 {
		return b.SendMessage(message.Chat.ID, "сейчас никто не поёт")
	}

	h.mu.Lock()
	h.stopInProgress = true
	h.mu.Unlock()

	return b.SendMessageWithButtons(message.Chat.ID,
		fmt.Sprintf("будут остановлены все песни (%d). уверены?", n),
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("останавливаем", "confirm_stop_all"),
				tgbotapi.NewInlineKeyboardButtonData("отмена", "abort_stop_all"),
			),
		),
	)
}

// takePending reports whether a stop was waiting for an answer and clears it.
func (h *AdminHandlers) takePending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	pending := h.stopInProgress
	h.stopInProgress = false
	return pending
}

func (h *AdminHandlers) confirmHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := bot.ChatID(update)
	if !h.takePending() {
		return b.SendMessage(chatID, "кнопка уже не работает")
	}
	if err := h.sessions.Clear(context.Background()); err != nil {
		return b.SendMessage(chatID, "не получилось сохранить, но в памяти всё остановлено")
	}
	logger.Info(fmt.Sprintf("@%s stopped all sessions", bot.Username(update)))
	return b.SendMessage(chatID, "все песни остановлены")
}

func (h *AdminHandlers) abortHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := bot.ChatID(update)
	if !h.takePending() {
		return b.SendMessage(chatID, "кнопка уже не работает")
	}
	return b.SendMessage(chatID, "ок. отменили")
}

func SetupHandlers(adminBot *bot.Bot, commonHandlers *common.CommonHandlers, sessions *state.StateManager, songbook *db.Songbook, adminUsernames []string) {
	handlers := NewAdminHandlers(sessions, adminUsernames)
	search := NewSearchHandler(adminUsernames, songbook)

	commandHandlers := common.GetCommandHandlers(commonHandlers)
	commandHandlers["stopall"] = handlers.stopAllHandler
	commandHandlers["findsong"] = search.findSongHandler
	commandHandlers["check"] = search.checkHandler

	callbackHandlers := common.GetCallbackHandlers(commonHandlers)
	callbackHandlers["abort_stop_all"] = handlers.abortHandler
	callbackHandlers["confirm_stop_all"] = handlers.confirmHandler
	callbackHandlers["song"] = search.callbackHandler

	go adminBot.Start(commandHandlers, []bot.HandlerFunc{search.messageHandler}, callbackHandlers)
}
