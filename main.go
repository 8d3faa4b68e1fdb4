package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"abrino-storage/backend/api/handler"
	"abrino-storage/backend/api/middleware"
	"abrino-storage/backend/api/route"
	"abrino-storage/backend/bot"
	"abrino-storage/backend/common"
	"abrino-storage/backend/library/telegram"
	"abrino-storage/backend/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	tgbot "github.com/go-telegram/bot"
)

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	common.SetupGinLog()
	common.SysLog("Abrino Storage " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	// Initialize Redis
	err := common.InitRedisClient()
	if err != nil {
		common.FatalLog(err)
	}
	// Initialize SQL Database
	err = model.InitDB()
	if err != nil {
		common.FatalLog(err)
	}

	botCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()
	if common.TelegramBotToken != "" {
		dispatcher := bot.NewDispatcher()
		client, err := telegram.NewClient(common.TelegramBotToken,
			tgbot.WithDefaultHandler(dispatcher.Handle))
		if err != nil {
			common.FatalLog(err)
		}
		handler.TelegramClient = client
		go func() {
			common.SysLog("Telegram bot polling started")
			client.Bot().Start(botCtx)
			common.SysLog("Telegram bot polling stopped")
		}()
	} else {
		common.SysLog("TELEGRAM_BOT_TOKEN not set, chat bot and file transfer disabled")
	}

	// Initialize HTTP server
	server := gin.Default()
	server.Use(middleware.CORS())

	// Initialize session store
	if common.RedisEnabled {
		opt := common.ParseRedisOption()
		store, _ := redis.NewStore(opt.MinIdleConns, opt.Network, opt.Addr, opt.Password, []byte(common.SessionSecret))
		server.Use(sessions.Sessions("session", store))
	} else {
		store := cookie.NewStore([]byte(common.SessionSecret))
		server.Use(sessions.Sessions("session", store))
	}

	route.SetRouter(server)

	port := strconv.Itoa(*common.Port)
	common.SysLog("Server listening on port: " + port)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server: " + err.Error())
		}
	}()

	waitForShutdown(srv, stopBot)
}

// waitForShutdown blocks until SIGINT or SIGTERM, then drains in-flight
// requests before stopping the bot and closing the database.
func waitForShutdown(srv *http.Server, stopBot context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	common.SysLog("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.SysLog("Error shutting down server: " + err.Error())
	}
	stopBot()
	if err := model.CloseDB(); err != nil {
		common.SysLog("Error closing database: " + err.Error())
	}
}
