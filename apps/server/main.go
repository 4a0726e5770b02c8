package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"oldmaid-lite/apps/server/internal/config"
	"oldmaid-lite/apps/server/internal/gateway"
	"oldmaid-lite/apps/server/internal/ledger"
	"oldmaid-lite/apps/server/internal/room"
	"oldmaid-lite/game"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[Main] config: %v", err)
	}

	history, err := ledger.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Main] ledger: %v", err)
	}
	defer history.Close()

	table, err := room.New(game.Config{
		MinPlayers: cfg.MinPlayers,
		MaxPlayers: cfg.MaxPlayers,
	}, history)
	if err != nil {
		log.Fatalf("[Main] room: %v", err)
	}
	defer table.Stop()

	gw := gateway.NewServer(table)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", gw.ServeWS)
	mux.HandleFunc("/rounds", func(w http.ResponseWriter, r *http.Request) {
		items, err := history.ListRecent(r.Context(), 20)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		log.Printf("[Main] http listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Main] http server: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		httpSrv.Shutdown(context.Background())
	}()

	if err := gw.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		log.Fatalf("[Main] gateway: %v", err)
	}
	log.Printf("[Main] shutdown complete")
}
