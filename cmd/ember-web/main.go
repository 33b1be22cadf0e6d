package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/ember/config"
	"github.com/lixenwraith/ember/core"
	"github.com/lixenwraith/ember/stream"
)

var (
	configPath = flag.String("config", "", "TOML config file")
	addrFlag   = flag.String("addr", "", "Listen address, overrides web.address")
	seedFlag   = flag.Uint64("seed", 0, "Random seed, 0 picks one from the clock")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Web.Address = *addrFlag
		case "seed":
			cfg.Spark.Seed = *seedFlag
		}
	})

	logFile, err := core.SetupLogging(cfg.Log.Dir, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	srv, err := stream.NewServer(stream.Config{
		Address:   cfg.Web.Address,
		FrameRate: cfg.Web.FrameRate,
		Width:     cfg.Web.Width,
		Height:    cfg.Web.Height,
		Options:   cfg.Spark.EngineOptions(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("ember: open http://%s\n", cfg.Web.Address)
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
