package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cya/internal/dispatch"
)

const usage = `usage: cyactl [flags] <command> <host> <container> [keep_running]

commands:
  remove     remove a container
  recreate   mark a container to be rebuilt
  state      set whether a container is kept running (true|false)

flags:
`

func main() {
	server := flag.String("server", envOrDefault("CYA_SERVER_URL", "http://localhost:8000"), "cya server URL")
	page := flag.String("page", "/", "Page the actions are submitted from; the server returns there")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 3 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	b, err := dispatch.NewBrowser(*server)
	if err != nil {
		log.Fatal(err)
	}
	if err := b.Navigate(ctx, *page); err != nil {
		log.Fatalf("open %s: %v", *page, err)
	}

	d := dispatch.New(b, nil)
	host, name := args[1], args[2]

	switch args[0] {
	case "remove":
		err = d.RequestRemoveContainer(ctx, host, name)
	case "recreate":
		err = d.RequestRecreateContainer(ctx, host, name)
	case "state":
		if len(args) != 4 {
			flag.Usage()
			os.Exit(2)
		}
		keep, perr := strconv.ParseBool(args[3])
		if perr != nil {
			log.Fatalf("keep_running: %v", perr)
		}
		err = d.RequestSetContainerState(ctx, host, name, keep)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}

	// The outcome is whatever page the server answered with.
	p := b.Page()
	fmt.Printf("%d %s\n%s\n", p.Status, p.URL, p.Body)
	if p.Status >= 400 {
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
