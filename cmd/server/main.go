package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homebanking/internal/config"
	"homebanking/internal/db"
	"homebanking/internal/handlers"
	"homebanking/internal/services"
	"homebanking/internal/store"
	"homebanking/internal/websocket"
)

func main() {
	cfg := config.Load()
	backend, err := db.Open(db.Options{
		Driver:        cfg.StoreDriver,
		Path:          cfg.StorePath,
		DatabaseURL:   cfg.DatabaseURL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	st := store.New(backend, cfg.StoreKeyPrefix)
	defer st.Close()
	log.Printf("store driver %s ready", cfg.StoreDriver)

	if err := st.InitializeDefaults(context.Background()); err != nil {
		log.Fatalf("failed to seed store: %v", err)
	}

	users := store.NewUserStore(st)
	accounts := store.NewAccountStore(st)
	cards := store.NewCardStore(st)
	transactions := store.NewTransactionStore(st)
	hub := websocket.NewHub()

	handler := handlers.New(cfg, handlers.Deps{
		Users:      services.NewUserService(st, users),
		Accounts:   services.NewAccountService(st, users, accounts, transactions, hub),
		Cards:      services.NewCardService(st, users, cards, transactions),
		Transfers:  services.NewTransferService(st, accounts, transactions, hub),
		Ledger:     services.NewLedgerService(st),
		Statements: services.NewStatementService(st),
		Data:       st,
		Admins:     users,
	}, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("homebanking API listening on %s (%s)", server.Addr, cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
