package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/ent0n29/hfchat/internal/chat"
	"github.com/ent0n29/hfchat/internal/completion"
	"github.com/ent0n29/hfchat/internal/config"
	"github.com/ent0n29/hfchat/internal/session"
	"github.com/ent0n29/hfchat/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	client := completion.New(completion.Config{
		URL:       cfg.InferenceURL,
		Model:     cfg.InferenceModel,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.InferenceTimeout,
	})
	defer client.CloseIdleConnections()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	sess := session.New(uuid.NewString())
	driver := terminal.NewDriver(line, os.Stdout, chat.NewService(client, nil), sess)
	if err := driver.Run(ctx); err != nil {
		log.Printf("terminal error: %v", err)
	}
}
