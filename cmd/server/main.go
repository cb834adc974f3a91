package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httpapi "obstruction/internal/api/http"
	"obstruction/internal/api/ws"
	"obstruction/internal/config"
	"obstruction/internal/room"
	"obstruction/internal/store"
)

func main() {
	cfg := config.Get()
	config.SetupLogging(*cfg)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open-database")
	}
	defer db.Close()

	mem := store.NewMemoryStore()
	rm := room.NewManager(mem, db, *cfg, nil)
	hub := ws.NewHub(rm)
	rm.SetHub(hub)
	r := httpapi.NewRouter(rm, hub)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Int("boardSize", cfg.BoardSize).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}
