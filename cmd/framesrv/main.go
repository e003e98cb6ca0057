// Command framesrv serves rendered snapshots of the configured scene.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alleycats/internal/config"
	"alleycats/internal/framesrv"
	"alleycats/internal/sprite"
	"alleycats/internal/workers"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	spr, err := sprite.LoadOrDefault(cfg.Sprite.Path)
	if err != nil {
		log.Printf("Warning: Failed to load sprite %q: %v", cfg.Sprite.Path, err)
	}
	store, err := cfg.BuildScene()
	if err != nil {
		log.Fatal(err)
	}

	pool := workers.NewPool(cfg.Server.RenderWorkers)
	pool.Start()
	defer pool.Stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           framesrv.NewServer(cfg, store, spr, pool).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), framesrv.RenderTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: shutdown: %v", err)
		}
	}()

	log.Printf("framesrv listening on %s with %d render workers", srv.Addr, pool.NumWorkers())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
