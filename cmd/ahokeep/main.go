/*
Package main implements the ahokeep server and commandline interface.

ahokeep maintains an incremental Aho-Corasick automaton over an
external key/value store, so the trie, failure links, and output sets
survive process restarts and can be shared across clients. It can
operate as a MessagePack IPC server for scripted/editor integration or
as a standalone CLI for interactive testing.

# Server Mode

The server answers add/remove/find/suggest/info/flush requests read
from stdin, one at a time, writing a MessagePack response to stdout
per request.

# CLI Mode

The CLI provides an interactive shell for debugging and testing the
automaton's functionality directly.

# Config

Runtime configuration is managed via a config.toml file with sections
for the store connection, instance defaults, and CLI behavior. A
default configuration is created automatically if one does not exist.
Of the file's values only the store password is applied: host, port,
db and instance name come from flags whose defaults are the built-in
defaults, and the cli section is not read.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nilcrux/ahokeep/internal/cli"
	"github.com/nilcrux/ahokeep/internal/logger"
	"github.com/nilcrux/ahokeep/pkg/bulk"
	"github.com/nilcrux/ahokeep/pkg/config"
	"github.com/nilcrux/ahokeep/pkg/ipc"
	"github.com/nilcrux/ahokeep/pkg/keywords"
	"github.com/nilcrux/ahokeep/pkg/store"
)

const (
	Version = "0.1.0-beta"
	AppName = "ahokeep"
	gh      = "https://github.com/nilcrux/ahokeep"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to custom config.toml file")
	debugMode := flag.Bool("v", false, "Toggle verbose mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	instanceName := flag.String("instance", defaultConfig.Instance.DefaultName, "Automaton instance name")
	loadFile := flag.String("load", "", "Load keywords from a newline-delimited file before starting")
	host := flag.String("host", defaultConfig.Store.Host, "Store host")
	port := flag.Int("port", defaultConfig.Store.Port, "Store port")
	db := flag.Int("db", defaultConfig.Store.DB, "Store database index")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ahokeep] incremental Aho-Corasick over a key/value store")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use --help to see available options")
		logger.Print("")
		logger.Print("Find out more at", "gh", gh)

		os.Exit(0)
	}

	level := log.WarnLevel
	if *debugMode {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	appLog := logger.NewWithConfig(AppName, level, false, *debugMode, log.TextFormatter)

	configPath := *configFile
	if configPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		configPath = filepath.Join(dir, AppName, "config.toml")
	}
	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		appLog.Fatalf("Failed to load config: %v", err)
	}
	appLog.Debugf("Using config file: %s", configPath)

	ctx := context.Background()
	cfg := store.Config{Host: *host, Port: *port, DB: *db, Password: appConfig.Store.Password}
	inst, err := keywords.Open(ctx, cfg, *instanceName)
	if err != nil {
		appLog.Fatalf("Failed to open instance %q: %v", *instanceName, err)
	}

	if *loadFile != "" {
		result, err := bulk.Load(ctx, inst, *loadFile)
		if err != nil {
			appLog.Fatalf("Failed to load %s: %v", *loadFile, err)
		}
		appLog.Infof("Loaded %d keywords from %s (%d skipped)", result.Added, *loadFile, result.Skipped)
	}

	if *cliMode {
		inputHandler := cli.NewInputHandler(inst)
		if err := inputHandler.Start(ctx); err != nil {
			appLog.Fatalf("CLI error: %v", err)
		}
		return
	}

	appLog.Debug("spawning IPC")
	showStartupInfo(*instanceName)

	srv := ipc.NewStdioServer(inst)
	if err := srv.Start(ctx); err != nil {
		appLog.Fatalf("Failed to start server: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process, at a
// guaranteed InfoLevel independent of the configured log level, via its
// own logger instance rather than temporarily bumping global state.
func showStartupInfo(instance string) {
	pid := os.Getpid()
	startupLog := logger.NewWithConfig(AppName, log.InfoLevel, false, false, log.TextFormatter)

	println("===========")
	println(" ahokeep ")
	println("===========")
	startupLog.Infof("Version: %s", Version)
	startupLog.Infof("Process ID: [ %d ]", pid)
	startupLog.Info("init: OK")
	startupLog.Infof("instance: ( %s )", instance)
	startupLog.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")
}
