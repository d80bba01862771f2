package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/prior-it/crud/bootstrap"
	"github.com/prior-it/crud/config"
)

var (
	showVersion bool
	configDir   string
)

func init() {
	flag.Usage = helpMessage
	flag.BoolVar(&showVersion, "v", false, "Show version information")
	flag.StringVar(&configDir, "config", ".", "Directory that contains config.toml")
}

func helpMessage() {
	output := flag.CommandLine.Output()
	fmt.Fprintf(output, "Usage of %s:\n\n", os.Args[0])
	fmt.Fprintln(output, "This tool serves the persons and countries API.")
	fmt.Fprintln(output, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(os.DirFS(configDir))
	if err != nil {
		log.Fatalf("Could not load the configuration: %v\n", err)
	}
	if showVersion {
		fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		return
	}

	ctx := context.Background()

	s, state, err := bootstrap.Full(ctx, cfg)
	if err != nil {
		log.Fatalf("Could not start: %v\n", err)
	}
	if err := bootstrap.SeedIdentity(ctx, state.Accounts, state.Permissions(), cfg.Admin, state.Logger); err != nil {
		state.Close(ctx)
		log.Fatalf("Could not seed the identity data: %v\n", err)
	}

	if err := s.Start(ctx, nil); err != nil {
		state.Logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
