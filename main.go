package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/customeros/namesherpa/cli"
	"github.com/customeros/namesherpa/internal/config"
	"github.com/customeros/namesherpa/internal/report"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	verbose := flag.Bool("v", false, "verbose output")
	progress := flag.Bool("progress", false, "show a progress bar on stderr")
	flag.Usage = cli.PrintUsage
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		cli.PrintUsage()
		return
	}

	if args[0] == "version" {
		cli.Version()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Invalid configuration:", err)
		return
	}
	cfg.Progress = cfg.Progress || *progress
	log := report.New(os.Stdout, *verbose)

	switch args[0] {
	case "firstnames":
		if len(args) > 2 {
			fmt.Println("Usage: namesherpa firstnames [source dir]")
			return
		}
		if len(args) == 2 {
			cfg.FirstNames.SourceDir = args[1]
		}
		cli.ExportFirstNames(cfg, log)
	case "surnames":
		if len(args) != 1 {
			fmt.Println("Usage: namesherpa surnames")
			return
		}
		cli.ExportSurnames(cfg, log)
	case "lookup":
		if len(args) != 2 {
			fmt.Println("Usage: namesherpa lookup <name>")
			return
		}
		cli.Lookup(cfg, args[1])
	default:
		fmt.Println("Unknown command.")
		cli.PrintUsage()
	}
}
