package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"interviewer/internal/config"
	"interviewer/internal/daemon"
	"interviewer/internal/interview"
	"interviewer/internal/logging"
	"interviewer/internal/objectstore"
	"interviewer/internal/server"
	"interviewer/internal/services/llm"
	"interviewer/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		return
	}

	objects, err := objectstore.New(cfg, logger)
	if err != nil {
		logger.Error("init object storage", logging.Error(err))
		_ = st.Close()
		return
	}

	generator := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	svc := interview.New(cfg, st, objects, generator, nil, logger)
	api := server.New(cfg, svc, st, objects, generator, logger)

	d, err := daemon.New(cfg, st, api, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = st.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("interviewerd shutting down")
}
