package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cya/internal/agent"
	"cya/internal/config"
	"cya/internal/docker"
)

const usage = `usage: cya-agent [flags] <command>

commands:
  register   register this host with the server
  update     update host properties on the server
  sync       update host properties and report local containers
  check      check in with the server and converge containers once
  run        check on an interval until interrupted
`

func main() {
	cfg := config.LoadAgent()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if len(cfg.Args) != 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if cfg.ServerURL == "" || cfg.APIKey == "" {
		log.Fatal("CYA_SERVER_URL and HOST_API_KEY must be set")
	}

	// Only one agent may touch the containers at a time.
	release, err := agent.AcquireLock(cfg.LockFile)
	if errors.Is(err, agent.ErrLocked) {
		slog.Debug("agent already running", "lock", cfg.LockFile)
		return
	}
	if err != nil {
		log.Fatalf("lock %s: %v", cfg.LockFile, err)
	}
	defer release()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := docker.New()
	if err := rt.Ping(ctx); err != nil {
		log.Fatalf("docker: %v", err)
	}

	a := agent.New(cfg.Hostname, cfg.APIKey, agent.NewServerClient(cfg.ServerURL, cfg.Hostname, cfg.APIKey), rt)

	switch cmd := cfg.Args[0]; cmd {
	case "register":
		err = a.Register(ctx)
	case "update":
		err = a.Update(ctx, false)
	case "sync":
		err = a.Update(ctx, true)
	case "check":
		err = a.Check(ctx)
	case "run":
		log.Printf("agent for %s checking %s every %s", cfg.Hostname, cfg.ServerURL, cfg.Interval)
		err = a.Run(ctx, cfg.Interval)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		release()
		log.Fatalf("%s: %v", cfg.Args[0], err)
	}
}
