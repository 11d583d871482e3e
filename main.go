package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp()
	if err := app.Startup(ctx); err != nil {
		log.Fatalf("[main] startup failed: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("[main] shutting down")
	cancel()
	app.Shutdown(context.Background())
}
