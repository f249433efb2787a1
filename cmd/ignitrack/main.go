package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ignitrack/internal/config"
	"ignitrack/internal/data/connection"
	"ignitrack/internal/logger"
	"ignitrack/internal/manager"
	"ignitrack/internal/notify"
	"ignitrack/internal/version"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version information")
	output := flag.String("output", "", "Write report output to this path")
	flag.Parse()

	if *showVersion {
		info := version.GetInfo()
		fmt.Println(info.String())
		os.Exit(0)
	}

	mode := flag.Arg(0)
	switch mode {
	case "scan", "status", "report":
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s -config <file> scan|status|report\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	conns, err := connection.New(cfg.Data)
	if err != nil {
		log.Fatal("Failed to initialize data connections", zap.Error(err))
	}
	defer conns.Close()

	opts := []manager.Option{manager.WithConnections(conns)}
	if cfg.Notify.Enabled {
		notifier, err := notify.NewManager(&cfg.Notify, log)
		if err != nil {
			log.Fatal("Failed to initialize notifiers", zap.Error(err))
		}
		opts = append(opts, manager.WithNotifier(notifier))
	}

	m := manager.New(cfg, log, opts...)

	ctx := context.Background()
	if !m.Initialize(ctx) {
		log.Fatal("Manager initialization failed",
			zap.String("repository", cfg.Repository.Path))
	}

	switch mode {
	case "scan":
		changes, err := m.ScanForChanges()
		if err != nil {
			log.Fatal("Scan failed", zap.Error(err))
		}
		printJSON(changes)
	case "status":
		printJSON(m.RepositoryStatus(ctx))
	case "report":
		report, err := m.GenerateReport(ctx, manager.ReportComprehensive, "json", *output)
		if err != nil {
			log.Fatal("Report generation failed", zap.Error(err))
		}
		printJSON(report)
	}
}

// printJSON writes a value as indented JSON to stdout
func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(raw))
}
