package common

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/yoke/internal/bot"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/state"
	"github.com/sukalov/yoke/internal/utils"
)

const (
	// DefaultLead is how early a block shows up before its first word.
	DefaultLead = 3 * time.Second
	SeekStep    = 5 * time.Second
)

type CommonHandlers struct {
	sessions *state.StateManager
	songbook *db.Songbook
	lead     time.Duration
}

func NewCommonHandlers(sessions *state.StateManager, songbook *db.Songbook, lead time.Duration) *CommonHandlers {
	return &CommonHandlers{
		sessions: sessions,
		songbook: songbook,
		lead:     lead,
	}
}

func GetCommandHandlers(h *CommonHandlers) map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"now":      h.NowHandler,
		"sessions": h.sessionsHandler,
	}
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers(h *CommonHandlers) map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"now": h.NowHandler,
	}
}

// NowHandler shows the chat's current line.
func (h *CommonHandlers) NowHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := bot.ChatID(update)
	session, pos, err := h.sessions.Position(chatID)
	if errors.Is(err, state.ErrNoSession) {
		return b.SendMessage(chatID, "сейчас ничего не играет")
	}
	if err != nil {
		return err
	}
	return h.SendHighlight(b, chatID, session.SongID, pos)
}

// SendHighlight renders the song's highlight at pos into the chat.
func (h *CommonHandlers) SendHighlight(b *bot.Bot, chatID int64, songID string, pos time.Duration) error {
	parsed, err := h.songbook.Parsed(songID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load lyrics for song %s: %v", songID, err))
		return b.SendMessage(chatID, "не получилось прочитать текст песни")
	}

	hl := parsed.HighlightAt(pos, h.lead)
	if hl.Anomaly != nil {
		logger.Warn(fmt.Sprintf("song %s block %d at %s: %v", songID, hl.BlockIndex+1, utils.FormatPosition(pos), hl.Anomaly))
	}
	return b.SendHTML(chatID, RenderHighlight(hl, pos))
}

// RenderHighlight formats a highlight as Telegram HTML: the sung part in
// bold, the rest plain, and the playhead underneath.
func RenderHighlight(h lyrics.Highlight, pos time.Duration) string {
	clock := "<code>" + utils.FormatPosition(pos) + "</code>"
	if !h.Visible {
		return "♪\n\n" + clock
	}

	var b strings.Builder
	if h.Sung != "" {
		b.WriteString("<b>" + html.EscapeString(h.Sung) + "</b>")
	}
	b.WriteString(html.EscapeString(h.Unsung))
	return strings.TrimRight(b.String(), "\n") + "\n\n" + clock
}

// FormatSessions lists running sessions the way /sessions prints them.
func FormatSessions(sessions []state.Session, now time.Time) string {
	if len(sessions) == 0 {
		return "сейчас никто не поёт"
	}

	var b strings.Builder
	b.WriteString("сейчас поют:\n\n")
	for idx, s := range sessions {
		status := "играет"
		if s.Paused {
			status = "пауза"
		}
		fmt.Fprintf(&b, "%d. %s\n   песня: %s\n   позиция: %s (%s)\n",
			idx+1,
			html.EscapeString(displayName(s)),
			html.EscapeString(s.SongName),
			utils.FormatPosition(s.Position(now)),
			status,
		)
		if idx < len(sessions)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func displayName(s state.Session) string {
	if s.Username != "" {
		return "@" + s.Username
	}
	return fmt.Sprintf("chat %d", s.ChatID)
}

func (h *CommonHandlers) sessionsHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendHTML(bot.ChatID(update), FormatSessions(h.sessions.GetAll(), time.Now()))
}
