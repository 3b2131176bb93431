package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/yoke/internal/bot"
	"github.com/sukalov/yoke/internal/bot/admin"
	"github.com/sukalov/yoke/internal/bot/client"
	"github.com/sukalov/yoke/internal/bot/common"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/redis"
	"github.com/sukalov/yoke/internal/state"
	"github.com/sukalov/yoke/internal/utils"
)

func main() {
	env, err := utils.LoadEnv([]string{
		"BOT_TOKEN",
		"ADMIN_BOT_TOKEN",
		"REDIS_URL",
		"REDIS_PASSWORD",
		"TURSO_DATABASE_URL",
	})
	if err != nil {
		log.Fatalf("required env missing: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adminBot, err := bot.New("admin", env["ADMIN_BOT_TOKEN"])
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(adminBot); err != nil {
		logger.Warn(fmt.Sprintf("channel logging is off: %v", err))
	}

	clientBot, err := bot.New("client", env["BOT_TOKEN"])
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	database, err := db.Open(env["TURSO_DATABASE_URL"], os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		logger.Error(fmt.Sprintf("failed to open songbook database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	songbook, err := db.NewSongbook(ctx, database)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load songbook: %v", err))
		os.Exit(1)
	}

	store, err := redis.NewDBManager(env["REDIS_URL"], env["REDIS_PASSWORD"])
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer store.Close()

	sessions := state.NewStateManager(store)
	// A failed restore is logged and the bots start with no sessions.
	_ = logger.LogWithErr("restore saved sessions", sessions.Init(ctx))

	commonHandlers := common.NewCommonHandlers(sessions, songbook, common.DefaultLead)
	client.SetupHandlers(clientBot, commonHandlers, sessions, songbook, store)
	admin.SetupHandlers(adminBot, commonHandlers, sessions, songbook, utils.SplitList(os.Getenv("ADMINS")))

	logger.Success(fmt.Sprintf("bots are up: %d songs, %d running sessions", len(songbook.All()), len(sessions.GetAll())))

	<-ctx.Done()
	logger.Info("shutting down")
	clientBot.Stop()
	adminBot.Stop()
}
