package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	askpane "github.com/askpane/askpane"
	"github.com/askpane/askpane/internal/handlers"
	"github.com/askpane/askpane/internal/services"
	"github.com/askpane/askpane/internal/session"
	"gopkg.in/yaml.v3"
)

func main() {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatal(fmt.Errorf("error getting user config dir: %w", err))
	}
	cfgPath := filepath.Join(cfgDir, "askpane")
	if err := os.MkdirAll(cfgPath, 0755); err != nil {
		log.Fatal(fmt.Errorf("error creating config directory: %w", err))
	}

	cfgFile, err := os.Open(filepath.Join(cfgPath, "config.yaml"))
	if err != nil {
		log.Fatal(fmt.Errorf("error opening config file: %w", err))
	}
	defer cfgFile.Close()

	cfg := config{}
	if err := yaml.NewDecoder(cfgFile).Decode(&cfg); err != nil {
		log.Fatal(fmt.Errorf("error decoding config file: %w", err))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	backend, err := cfg.Answer.fetcher(cfg.SystemPrompt)
	if err != nil {
		log.Fatal(err)
	}

	journal, err := services.NewFetchJournal(filepath.Join(cfgPath, "journal.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer journal.Close()

	if samples, err := journal.Samples(0); err == nil {
		logger.Info("Fetch journal loaded", slog.Int("samples", len(samples)))
	}

	catalog, err := cfg.catalog()
	if err != nil {
		log.Fatal(err)
	}
	registry, err := session.NewRegistry(catalog)
	if err != nil {
		log.Fatal(err)
	}

	controller, err := session.NewController(session.Config{
		Fetcher:        services.NewRecorder(backend, journal, logger),
		Registry:       registry,
		Greeting:       cfg.Greeting,
		FallbackNotice: cfg.FallbackNotice,
		Logger:         logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	m, err := handlers.NewMain(controller, journal, logger)
	if err != nil {
		log.Fatal(err)
	}

	// Serve static files
	staticFS, err := fs.Sub(askpane.StaticFS, "static")
	if err != nil {
		log.Fatal(err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("/", m.HandleHome)
	mux.HandleFunc("/chats", m.HandleChats)
	mux.HandleFunc("/models", m.HandleModels)
	mux.HandleFunc("/stats", m.HandleStats)
	mux.HandleFunc("/sse/messages", m.HandleSSE)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.RegisterOnShutdown(func() {
		if err := m.Shutdown(context.Background()); err != nil {
			log.Printf("Failed to shutdown sse server: %v", err)
		}
	})

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		log.Println("Server starting on :" + cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt/terminate signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking select waiting for either interrupt or server error
	select {
	case err := <-serverErrors:
		log.Printf("Server error: %v", err)

	case sig := <-shutdown:
		log.Printf("Start shutdown, signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Graceful shutdown failed: %v", err)
			if err := srv.Close(); err != nil {
				log.Printf("Forcing server close: %v", err)
			}
		}
	}
}
