package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xtding233/gacha-economy/internal/api"
	"github.com/xtding233/gacha-economy/internal/game"
	"github.com/xtding233/gacha-economy/internal/rpc"
	"github.com/xtding233/gacha-economy/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}
	cfg, err := game.ParseProcessEnv()
	if err != nil {
		log.Fatal(err)
	}

	loader := game.NewLoader(cfg.ConfigDir)
	factory := func() (*session.Session, error) {
		_, settings, err := loader.Resolve(cfg.Profile)
		if err != nil {
			return nil, err
		}
		sess, err := session.New(settings, nil)
		if err != nil {
			return nil, err
		}
		log.Printf("session %s started: %s", sess.ID, settings)
		return sess, nil
	}

	srv, err := api.NewServer(factory)
	if err != nil {
		log.Fatalf("start session: %v", err)
	}
	grpcSrv, err := rpc.NewWithAddr(cfg.GRPCAddr, srv)
	if err != nil {
		log.Fatal(err)
	}
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		loader.WatchProfile(ctx, cfg.Profile, cfg.WatchInterval, func() {
			log.Println("config reloaded; POST /reset to start a session with it")
		})
	}()
	go func() {
		defer wg.Done()
		if err := grpcSrv.Serve(ctx); err != nil {
			log.Printf("grpc: %v", err)
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s ...", cfg.HTTPAddr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("http: %v", err)
		stop()
	}
	wg.Wait()
	log.Println("bye")
}
