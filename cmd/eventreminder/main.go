package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"eventreminder/internal/config"
	"eventreminder/internal/ics"
	appLog "eventreminder/internal/log"
	"eventreminder/internal/shell"
	"eventreminder/internal/store"
)

// flagConfig holds CLI flag values; non-empty values override the config file.
type flagConfig struct {
	configPath string
	logLevel   string
	exportPath string
	prompts    string
}

func main() {
	if err := run(context.Background(), os.Stdin, os.Stdout, parseFlags()); err != nil {
		appLog.Error("eventreminder failed", err)
		os.Exit(1)
	}
}

func run(parent context.Context, stdin *os.File, stdout io.Writer, flags flagConfig) error {
	conf, err := loadConfig(flags)
	if err != nil {
		return err
	}

	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		appLog.Warn("ignoring log level", "value", conf.LogLevel, "reason", err)
	}
	appLog.SetLevel(level)

	appLog.Debug("effective config",
		"config_path", flags.configPath,
		"log_level", level,
		"prompts", conf.Prompts,
		"calendar_name", conf.CalendarName,
		"export_path", conf.ExportPath,
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New()
	defer st.Reset()

	sh := shell.New(st, stdin, stdout, shell.Options{
		Prompts: shell.PromptsEnabled(conf.Prompts, stdin),
	})
	if err := sh.Run(ctx); err != nil {
		if ctx.Err() == nil {
			return err
		}
		// Interrupted: the schedule is still exported below.
		appLog.Info("session interrupted", "events", st.Len())
	}

	if conf.ExportPath != "" {
		if err := exportSchedule(st, conf); err != nil {
			return fmt.Errorf("export %s: %w", conf.ExportPath, err)
		}
	}
	return nil
}

// loadConfig uses defaults unless -config is given, then applies flag
// overrides.
func loadConfig(flags flagConfig) (*config.Config, error) {
	conf := config.DefaultConfig()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			if loaded == nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			appLog.Error("failed to write default config", err, "config_path", flags.configPath)
		}
		conf = loaded
	}

	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	if flags.exportPath != "" {
		conf.ExportPath = flags.exportPath
	}
	if flags.prompts != "" {
		conf.Prompts = flags.prompts
	}
	conf.Normalize()
	return conf, nil
}

func exportSchedule(st *store.EventStore, conf *config.Config) error {
	entries, _ := st.ListAll()

	var buf bytes.Buffer
	if err := ics.Write(&buf, entries, ics.Options{CalendarName: conf.CalendarName}); err != nil {
		return err
	}
	if err := config.WriteFileAtomic(conf.ExportPath, buf.Bytes()); err != nil {
		return err
	}
	appLog.Info("schedule exported", "path", conf.ExportPath, "events", len(entries))
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (created with defaults if missing)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.StringVar(&cfg.exportPath, "export", "", "Write an ICS snapshot of the schedule here on exit (overrides config)")
	flag.StringVar(&cfg.prompts, "prompts", "", "Prompt mode: auto, always, never (overrides config)")

	flag.Parse()

	return cfg
}
