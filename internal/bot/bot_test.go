package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestSplitCallback(t *testing.T) {
	tests := []struct {
		data, prefix, payload string
	}{
		{"song:42", "song", "42"},
		{"confirm_stop_all", "confirm_stop_all", ""},
		{"seek:a:b", "seek", "a:b"},
		{"", "", ""},
	}
	for _, tt := range tests {
		prefix, payload := SplitCallback(tt.data)
		if prefix != tt.prefix || payload != tt.payload {
			t.Errorf("SplitCallback(%q) = %q, %q; want %q, %q", tt.data, prefix, payload, tt.prefix, tt.payload)
		}
	}
}

func TestChatIDAndUsername(t *testing.T) {
	msg := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 10},
		From: &tgbotapi.User{UserName: "singer"},
	}}
	if ChatID(msg) != 10 || Username(msg) != "singer" {
		t.Errorf("message update: %d %q", ChatID(msg), Username(msg))
	}

	cb := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		From:    &tgbotapi.User{UserName: "admin"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 20}},
	}}
	if ChatID(cb) != 20 || Username(cb) != "admin" {
		t.Errorf("callback update: %d %q", ChatID(cb), Username(cb))
	}

	if ChatID(tgbotapi.Update{}) != 0 || Username(tgbotapi.Update{}) != "" {
		t.Error("empty update should give zero values")
	}

	anonymous := tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 30}}}
	if ChatID(anonymous) != 30 || Username(anonymous) != "" {
		t.Errorf("message without sender: %d %q", ChatID(anonymous), Username(anonymous))
	}
}
