package client

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/yoke/internal/bot"
	"github.com/sukalov/yoke/internal/bot/common"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/state"
)

const songbookHint = "выберите песню в сонгбуке и нажмите на ссылку, она откроет бота с нужной песней"

// PerformanceCounter counts how often each user sings each song.
type PerformanceCounter interface {
	IncrementSongCount(ctx context.Context, username string, songID string) error
	GetSongCounts(ctx context.Context, username string) (map[string]int, error)
}

type ClientHandlers struct {
	common   *common.CommonHandlers
	sessions *state.StateManager
	songbook *db.Songbook
	counter  PerformanceCounter
}

func NewClientHandlers(commonHandlers *common.CommonHandlers, sessions *state.StateManager, songbook *db.Songbook, counter PerformanceCounter) *ClientHandlers {
	return &ClientHandlers{
		common:   commonHandlers,
		sessions: sessions,
		songbook: songbook,
		counter:  counter,
	}
}

func playerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏪ -5с", "back"),
			tgbotapi.NewInlineKeyboardButtonData("⏯", "toggle"),
			tgbotapi.NewInlineKeyboardButtonData("+5с ⏩", "forward"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎤 строка", "now"),
			tgbotapi.NewInlineKeyboardButtonData("⏹ стоп", "stop"),
		),
	)
}

func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	songID := strings.TrimSpace(message.CommandArguments())
	if songID == "" {
		return b.SendMessage(message.Chat.ID, "не, просто так не работает. "+songbookHint)
	}

	song, found := h.songbook.FindSongByID(songID)
	if !found {
		return b.SendMessage(message.Chat.ID, "извините, песни с таким id нет")
	}

	parsed, err := h.songbook.Parsed(song.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to parse lyrics of %s: %v", song.ID, err))
		return b.SendMessage(message.Chat.ID, "у этой песни сломан текст, напишите админам")
	}
	if len(parsed.Timeline()) == 0 {
		return b.SendMessage(message.Chat.ID, "у этой песни ещё нет разметки по времени")
	}

	ctx := context.Background()
	session := state.Session{
		ChatID:   message.Chat.ID,
		Username: bot.Username(update),
		SongID:   song.ID,
		SongName: db.FormatSongName(song),
	}
	if _, err := h.sessions.Start(ctx, session, 0); err != nil {
		logger.Error(fmt.Sprintf("session for %d was not saved: %v", message.Chat.ID, err))
	}

	if err := h.songbook.IncrementSongCounter(ctx, song.ID); err != nil {
		logger.Error(fmt.Sprintf("failed to count song %s: %v", song.ID, err))
	}
	if h.counter != nil && session.Username != "" {
		if err := h.counter.IncrementSongCount(ctx, session.Username, song.ID); err != nil {
			logger.Error(err.Error())
		}
	}

	logger.Info(fmt.Sprintf("@%s started %s", session.Username, session.SongName))
	return b.SendMessageWithButtons(message.Chat.ID, startMessage(session.SongName), playerKeyboard())
}

// startMessage is sent in HTML mode, so the song name is escaped.
func startMessage(songName string) string {
	return fmt.Sprintf("поехали! «%s»\n\nнажимайте «строка», чтобы увидеть, что петь сейчас", html.EscapeString(songName))
}

func (h *ClientHandlers) pauseHandler(b *bot.Bot, update tgbotapi.Update) error {
	return h.control(b, update, pause)
}

func (h *ClientHandlers) resumeHandler(b *bot.Bot, update tgbotapi.Update) error {
	return h.control(b, update, resume)
}

func (h *ClientHandlers) toggleHandler(b *bot.Bot, update tgbotapi.Update) error {
	return h.control(b, update, toggle)
}

func (h *ClientHandlers) nudgeHandler(step int) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		return h.control(b, update, nudge(step))
	}
}

func (h *ClientHandlers) seekHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	pos, err := lyrics.ParseTimecode(message.CommandArguments())
	if err != nil {
		return b.SendMessage(message.Chat.ID, "не понял время. пример: /seek 01:23.500")
	}
	return h.control(b, update, seekTo(pos))
}

// control applies fn to the chat's session and shows the line at the new
// playhead.
func (h *ClientHandlers) control(b *bot.Bot, update tgbotapi.Update, fn sessionControl) error {
	chatID := bot.ChatID(update)
	session, pos, err := applyControl(context.Background(), h.sessions, chatID, fn)
	if errors.Is(err, state.ErrNoSession) {
		return b.SendMessage(chatID, "сейчас ничего не играет. "+songbookHint)
	}
	if err != nil {
		return err
	}
	return h.common.SendHighlight(b, chatID, session.SongID, pos)
}

// sessionControl changes one chat's session.
type sessionControl func(ctx context.Context, sessions *state.StateManager, chatID int64) (state.Session, error)

func pause(ctx context.Context, sessions *state.StateManager, chatID int64) (state.Session, error) {
	return sessions.Pause(ctx, chatID)
}

func resume(ctx context.Context, sessions *state.StateManager, chatID int64) (state.Session, error) {
	return sessions.Resume(ctx, chatID)
}

func toggle(ctx context.Context, sessions *state.StateManager, chatID int64) (state.Session, error) {
	s, ok := sessions.Get(chatID)
	if !ok {
		return state.Session{}, state.ErrNoSession
	}
	if s.Paused {
		return sessions.Resume(ctx, chatID)
	}
	return sessions.Pause(ctx, chatID)
}

// nudge moves the playhead by step times SeekStep. Seek clamps at zero.
func nudge(step int) sessionControl {
	return func(ctx context.Context, sessions *state.StateManager, chatID int64) (state.Session, error) {
		_, pos, err := sessions.Position(chatID)
		if err != nil {
			return state.Session{}, err
		}
		return sessions.Seek(ctx, chatID, pos+time.Duration(step)*common.SeekStep)
	}
}

func seekTo(pos time.Duration) sessionControl {
	return func(ctx context.Context, sessions *state.StateManager, chatID int64) (state.Session, error) {
		return sessions.Seek(ctx, chatID, pos)
	}
}

// applyControl runs fn and returns the session with its playhead afterwards.
// A session that changed in memory but failed to save is logged and kept.
func applyControl(ctx context.Context, sessions *state.StateManager, chatID int64, fn sessionControl) (state.Session, time.Duration, error) {
	session, err := fn(ctx, sessions, chatID)
	if errors.Is(err, state.ErrNoSession) {
		return state.Session{}, 0, err
	}
	if err != nil && session.SongID == "" {
		return state.Session{}, 0, err
	}
	if err != nil {
		logger.Error(fmt.Sprintf("session for %d was not saved: %v", chatID, err))
	}
	_, pos, err := sessions.Position(chatID)
	if err != nil {
		return state.Session{}, 0, err
	}
	return session, pos, nil
}

func (h *ClientHandlers) stopHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := bot.ChatID(update)
	session, err := h.sessions.Stop(context.Background(), chatID)
	if errors.Is(err, state.ErrNoSession) {
		return b.SendMessage(chatID, "сейчас ничего не играет")
	}
	if err != nil {
		logger.Error(fmt.Sprintf("session for %d was not saved: %v", chatID, err))
	}
	return b.SendMessage(chatID, fmt.Sprintf("остановили «%s». спасибо, что пели!", session.SongName))
}

// atHandler shows the line at a given time without touching the playhead.
func (h *ClientHandlers) atHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	session, ok := h.sessions.Get(message.Chat.ID)
	if !ok {
		return b.SendMessage(message.Chat.ID, "сначала выберите песню. "+songbookHint)
	}
	pos, err := lyrics.ParseTimecode(message.CommandArguments())
	if err != nil {
		return b.SendMessage(message.Chat.ID, "не понял время. пример: /at 01:23.500")
	}
	return h.common.SendHighlight(b, message.Chat.ID, session.SongID, pos)
}

// mySongsHandler lists how often the sender has sung each song.
func (h *ClientHandlers) mySongsHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := bot.ChatID(update)
	username := bot.Username(update)
	if h.counter == nil || username == "" {
		return b.SendMessage(chatID, "счётчик песен работает только для аккаунтов с username")
	}

	counts, err := h.counter.GetSongCounts(context.Background(), username)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load song counts of @%s: %v", username, err))
		return b.SendMessage(chatID, "не получилось достать статистику, попробуйте позже")
	}

	return b.SendMessage(chatID, formatSongCounts(counts, func(id string) (string, bool) {
		song, ok := h.songbook.FindSongByID(id)
		if !ok {
			return "", false
		}
		return db.FormatSongName(song), true
	}))
}

// formatSongCounts renders counts most sung first. Songs that name cannot
// resolve are left out.
func formatSongCounts(counts map[string]int, name func(songID string) (string, bool)) string {
	type row struct {
		name  string
		count int
	}
	rows := make([]row, 0, len(counts))
	for id, count := range counts {
		if n, ok := name(id); ok && count > 0 {
			rows = append(rows, row{n, count})
		}
	}
	if len(rows) == 0 {
		return "вы ещё ничего не пели. " + songbookHint
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	var sb strings.Builder
	sb.WriteString("ваши песни:\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "\n%d × %s", r.count, r.name)
	}
	return sb.String()
}

func randomMessageHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(
		update.Message.Chat.ID,
		fmt.Sprintf("этого я не понимаю...\n\n%s\n\nво время песни: /now /pause /resume /seek /stop\nстатистика: /mysongs", songbookHint),
	)
}

func SetupHandlers(clientBot *bot.Bot, commonHandlers *common.CommonHandlers, sessions *state.StateManager, songbook *db.Songbook, counter PerformanceCounter) {
	handlers := NewClientHandlers(commonHandlers, sessions, songbook, counter)

	commandHandlers := common.GetCommandHandlers(commonHandlers)
	commandHandlers["start"] = handlers.startHandler
	commandHandlers["pause"] = handlers.pauseHandler
	commandHandlers["resume"] = handlers.resumeHandler
	commandHandlers["seek"] = handlers.seekHandler
	commandHandlers["stop"] = handlers.stopHandler
	commandHandlers["at"] = handlers.atHandler
	commandHandlers["mysongs"] = handlers.mySongsHandler

	callbackHandlers := common.GetCallbackHandlers(commonHandlers)
	callbackHandlers["toggle"] = handlers.toggleHandler
	callbackHandlers["back"] = handlers.nudgeHandler(-1)
	callbackHandlers["forward"] = handlers.nudgeHandler(1)
	callbackHandlers["stop"] = handlers.stopHandler

	go clientBot.Start(
		commandHandlers,
		[]bot.HandlerFunc{randomMessageHandler},
		callbackHandlers,
	)
}
