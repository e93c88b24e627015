package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/mama165/sdk-go/logs"

	"translate-muc/langdetect"
	"translate-muc/moderation"
	"translate-muc/relay"
	"translate-muc/runtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the component lifecycle and
// centralizes error reporting, so defers fire and the entry point
// stays testable.
func run() error {
	// 1. Configuration & Logger
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Session collaborators
	opts := relay.Options{
		TranslationService: config.TranslationService,
		TranslationTimeout: config.TranslationTimeout,
	}
	if config.DetectLanguage {
		opts.Guesser = langdetect.New()
	}
	if config.ModerationEnabled {
		dict, err := moderation.LoadDictionary()
		if err != nil {
			return fmt.Errorf("loading moderation dictionary: %w", err)
		}
		replacement, err := CharacterRune(config.CharReplacement)
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("%d censored words loaded [%s]",
			len(dict.Words), strings.Join(dict.Languages, ",")))

		moderator, err := moderation.New(dict.Words, replacement, log)
		if err != nil {
			return fmt.Errorf("building moderator: %w", err)
		}
		opts.Moderator = moderator
	}

	// 3. Supervision: the connector re-dials after stream failures
	sup := runtime.NewSupervisor(log, config.RestartInterval)
	sup.Add(relay.NewConnector(
		config.ServerAddress,
		config.ComponentDomain,
		config.ComponentSecret,
		opts,
		log,
	))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting component relay",
		"server", config.ServerAddress,
		"domain", config.ComponentDomain,
		"translator", config.TranslationService)
	sup.Run(ctx)

	log.Info("Component stopped cleanly")
	return nil
}
