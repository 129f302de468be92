package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"migwatch/internal/logging"
	"migwatch/internal/simulator"
)

// main launches migsimd.
func main() {
	os.Exit(run())
}

// run executes migsimd and returns an exit code.
func run() int {
	configPath := flag.String("config", "migsimd.yaml", "path to migsimd config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log error: %v\n", err)
		return 1
	}
	logger := logging.New(os.Stderr, level)

	job := simulator.NewJob(cfg.Job.AUs, time.Now)
	if cfg.Job.AutoStart {
		_ = job.Start()
	}
	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	mux.Handle(cfg.Server.OperationPath, simulator.NewHandler(simulator.Config{
		Job:       job,
		FailEvery: cfg.Job.FailEvery,
		Logger:    logger,
	}))

	server := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: mux,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go job.Run(ctx, stepInterval(cfg))

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	logger.Info("migsimd listening", "addr", cfg.Server.ListenAddr, "path", cfg.Server.OperationPath, "aus", len(cfg.Job.AUs))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	return 0
}
