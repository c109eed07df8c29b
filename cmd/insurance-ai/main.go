package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gaigenticai/insurance-ai-system-sub000/bootstrap"
	"github.com/gaigenticai/insurance-ai-system-sub000/config"
)

const serviceName = "insurance-ai"

func main() {
	configPath := flag.String("config", "", "path to the config file (defaults to probing ./config.yml)")
	flag.Parse()

	var opts []config.LoaderOption
	if *configPath != "" {
		opts = append(opts, config.WithConfigFile(*configPath))
	}

	var cfg config.Config
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}

	app, err := bootstrap.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to bootstrap: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		app.Logger.Error("application failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
