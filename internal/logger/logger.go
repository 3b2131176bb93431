package logger

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sukalov/yoke/internal/utils"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	ChannelID int64
	once      sync.Once
	botClient BotClient

	mu       sync.RWMutex
	minLevel = ParseLevel(os.Getenv("LOG_LEVEL"))
	std      = log.New(os.Stderr, "", log.LstdFlags)
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Init forwards log lines of INFO and above to the Telegram channel named by
// LOG_CHANNEL_ID.
func Init(client BotClient) error {
	var initErr error
	once.Do(func() {
		env, err := utils.LoadEnv([]string{"LOG_CHANNEL_ID"})
		if err != nil {
			initErr = fmt.Errorf("failed to load LOG_CHANNEL_ID: %w", err)
			return
		}

		id, err := strconv.ParseInt(env["LOG_CHANNEL_ID"], 10, 64)
		if err != nil {
			initErr = fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
			return
		}

		mu.Lock()
		ChannelID = id
		botClient = client
		mu.Unlock()
	})

	return initErr
}

// SetLevel changes the minimum level written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetOutput redirects local log lines and returns the previous logger.
func SetOutput(l *log.Logger) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	prev := std
	std = l
	return prev
}

func Debug(message string) {
	write(LevelDebug, "🔍 DEBUG", message)
}

func Info(message string) {
	write(LevelInfo, "ℹ️ INFO", message)
}

func Warn(message string) {
	write(LevelWarn, "⚠️ WARN", message)
}

func Error(message string) {
	write(LevelError, "❌ ERROR", message)
}

func Success(message string) {
	write(LevelInfo, "✅ SUCCESS", message)
}

// LogWithErr logs message at INFO when err is nil and at ERROR otherwise,
// returning err wrapped with the message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))
	return fmt.Errorf("%s: %w", message, err)
}

func write(level Level, prefix, message string) {
	mu.RLock()
	out, min, client, channel := std, minLevel, botClient, ChannelID
	mu.RUnlock()

	if level < min {
		return
	}
	out.Printf("%s %s", prefix, message)

	if client == nil || level < LevelInfo {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channel, logMessage); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send log to channel: %v\nLog was: %s\n", err, logMessage)
		}
	}()
}

// ParseLevel reads a level name case-insensitively. Unknown names are INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}
