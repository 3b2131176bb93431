package admin

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/lyrics"
)

func TestSongReport(t *testing.T) {
	song := db.Song{ID: "abc", Artist: "Кино", Title: "Кукушка", Counter: 3}

	parsed, err := lyrics.Parse("[00:01.000]one[00:02.000]\n\n[00:03.000]two[00:04.500]")
	if err != nil {
		t.Fatal(err)
	}
	got := SongReport(song, parsed)
	for _, want := range []string{"<code>abc</code>", "спета раз: 3", "блоков: 2, с разметкой: 2", "от 00:01.000 до 00:04.500", "в порядке"} {
		if !strings.Contains(got, want) {
			t.Errorf("SongReport() missing %q in:\n%s", want, got)
		}
	}

	parsed, err = lyrics.Parse("untimed\n\n[00:03.000]<x>[00:04.000]")
	if err != nil {
		t.Fatal(err)
	}
	got = SongReport(song, parsed)
	if !strings.Contains(got, "проблемы (1)") || !strings.Contains(got, "block 1: untimed") {
		t.Errorf("SongReport() = %s", got)
	}
}

func TestAdminHandlers_Pending(t *testing.T) {
	h := NewAdminHandlers(nil, []string{"boss"})
	if !h.admins["boss"] || h.admins["guest"] {
		t.Fatalf("admins = %v", h.admins)
	}
	if h.takePending() {
		t.Fatal("nothing was pending")
	}
	h.stopInProgress = true
	if !h.takePending() || h.takePending() {
		t.Error("a pending stop is answered once")
	}
}

func TestIsAdmin(t *testing.T) {
	admins := adminSet([]string{"boss", ""})
	chat := &tgbotapi.Chat{ID: 7}

	tests := []struct {
		name   string
		update tgbotapi.Update
		want   bool
	}{
		{"listed sender", tgbotapi.Update{Message: &tgbotapi.Message{Chat: chat, From: &tgbotapi.User{UserName: "boss"}}}, true},
		{"other sender", tgbotapi.Update{Message: &tgbotapi.Message{Chat: chat, From: &tgbotapi.User{UserName: "guest"}}}, false},
		{"no username", tgbotapi.Update{Message: &tgbotapi.Message{Chat: chat, From: &tgbotapi.User{}}}, false},
		{"channel post without sender", tgbotapi.Update{Message: &tgbotapi.Message{Chat: chat}}, false},
		{"button press", tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{From: &tgbotapi.User{UserName: "boss"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAdmin(admins, tt.update); got != tt.want {
				t.Errorf("isAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}
