package admin

import (
	"fmt"
	"html"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/yoke/internal/bot"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/utils"
)

const maxResults = 10

type SearchHandler struct {
	admins   map[string]bool
	songbook *db.Songbook

	mu             sync.Mutex
	awaitingSearch map[int64]bool
}

func NewSearchHandler(adminUsernames []string, songbook *db.Songbook) *SearchHandler {
	return &SearchHandler{
		admins:         adminSet(adminUsernames),
		songbook:       songbook,
		awaitingSearch: make(map[int64]bool),
	}
}

func (h *SearchHandler) findSongHandler(b *bot.Bot, update tgbotapi.Update) error {
	if !isAdmin(h.admins, update) {
		return b.SendMessage(update.Message.Chat.ID, "вы не админ")
	}

	h.mu.Lock()
	h.awaitingSearch[update.Message.Chat.ID] = true
	h.mu.Unlock()
	return b.SendMessage(update.Message.Chat.ID, "здесь можно найти песню и проверить разметку. напишите название песни или артиста")
}

func (h *SearchHandler) messageHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	h.mu.Lock()
	awaiting := h.awaitingSearch[chatID]
	delete(h.awaitingSearch, chatID)
	h.mu.Unlock()

	if !awaiting {
		return b.SendMessage(chatID, "ничего не понятно. если вы пытаетесь найти песню, сначала нажмите /findsong")
	}

	results := h.songbook.SearchSongs(update.Message.Text)
	if len(results) == 0 {
		return b.SendMessage(chatID, "ничего не найдено")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range results {
		if len(rows) >= maxResults {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(db.FormatSongName(song), "song:"+song.ID),
		))
	}

	message := "найденные песни:"
	if len(results) > maxResults {
		message += fmt.Sprintf("\n(показаны первые %d из %d)", maxResults, len(results))
	}
	return b.SendMessageWithButtons(chatID, message, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *SearchHandler) callbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	_, songID := bot.SplitCallback(update.CallbackQuery.Data)
	return h.sendReport(b, bot.ChatID(update), songID)
}

func (h *SearchHandler) checkHandler(b *bot.Bot, update tgbotapi.Update) error {
	if !isAdmin(h.admins, update) {
		return b.SendMessage(update.Message.Chat.ID, "вы не админ")
	}
	songID := strings.TrimSpace(update.Message.CommandArguments())
	if songID == "" {
		return b.SendMessage(update.Message.Chat.ID, "пример: /check <id песни>")
	}
	return h.sendReport(b, update.Message.Chat.ID, songID)
}

func (h *SearchHandler) sendReport(b *bot.Bot, chatID int64, songID string) error {
	song, found := h.songbook.FindSongByID(songID)
	if !found {
		return b.SendMessage(chatID, "песня не найдена")
	}
	parsed, err := h.songbook.Parsed(song.ID)
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("текст не читается: %v", err))
	}
	return b.SendHTML(chatID, SongReport(song, parsed))
}

// SongReport describes a song's timing for admins: its blocks and any
// problems the checker finds.
func SongReport(song db.Song, parsed *lyrics.ParsedLyrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\nid: <code>%s</code>\nспета раз: %d\n\n",
		html.EscapeString(db.FormatSongName(song)), html.EscapeString(song.ID), song.Counter)

	timeline := parsed.Timeline()
	fmt.Fprintf(&b, "блоков: %d, с разметкой: %d\n", len(parsed.Blocks), len(timeline))
	if len(timeline) > 0 {
		first, last := timeline[0].Range.Start, timeline[len(timeline)-1].Range.End
		fmt.Fprintf(&b, "от %s до %s\n", utils.FormatPosition(first), utils.FormatPosition(last))
	}

	issues := lyrics.Check(parsed)
	if len(issues) == 0 {
		b.WriteString("\nразметка в порядке ✅")
		return b.String()
	}
	fmt.Fprintf(&b, "\nпроблемы (%d):\n", len(issues))
	for _, issue := range issues {
		b.WriteString("• " + html.EscapeString(issue.String()) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
