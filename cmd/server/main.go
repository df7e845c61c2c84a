package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/restolink/api/internal/config"
	"github.com/restolink/api/internal/notify"
	"github.com/restolink/api/internal/router"
	"github.com/restolink/api/internal/storage"
	"github.com/restolink/api/internal/store"
	"github.com/restolink/api/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, st, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("connect document store: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Println("Connected to document store")

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("connect telegram bot: %v", err)
	}
	dispatcher := notify.New(bot, cfg.TelegramChatID)

	uploader, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("connect object store: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.New(cfg, st, dispatcher, uploader, hub),
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: shutdown: %v", err)
	}
}
