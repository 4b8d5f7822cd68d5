// Package main is an entrypoint for the collector.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"golang.org/x/exp/slog"

	"wikidump/internal/collector"
	"wikidump/internal/config"
	"wikidump/internal/env"
	"wikidump/internal/publish"
	"wikidump/pkg/graceful"
	"wikidump/pkg/logx"
	"wikidump/pkg/wikipedia"
)

type options struct {
	Config    string   `long:"config" env:"WIKIDUMP_CONFIG" description:"path to a yaml config file"`
	Lang      string   `long:"lang" env:"WIKIDUMP_LANG" description:"primary language (default: en)"`
	Targets   []string `long:"target" env:"WIKIDUMP_TARGETS" env-delim:"," description:"target language, repeatable (default: sv,fi,de,cs)"`
	Count     *int     `long:"count" env:"WIKIDUMP_COUNT" description:"number of random articles (default: 10)"`
	UserAgent string   `long:"user-agent" env:"WIKIDUMP_USER_AGENT" description:"User-Agent sent to the API"`

	Kafka struct {
		Broker string `long:"broker" env:"BROKER" description:"kafka broker address, enables publishing"`
		Topic  string `long:"topic" env:"TOPIC" description:"kafka topic for article records"`
	} `group:"kafka" namespace:"kafka" env-namespace:"KAFKA"`

	JSONLogs bool `long:"json-logs" env:"JSON_LOGS" description:"turn on json logs"`
	Debug    bool `long:"dbg" env:"DEBUG" description:"turn on debug mode"`

	Args struct {
		Output string `positional-arg-name:"output" description:"output file (default: ./wikipedia_dumps/wikipedia_articles.json)"`
	} `positional-args:"yes"`
}

var version = "unknown"

func getVersion() string {
	v, ok := debug.ReadBuildInfo()
	if !ok || v.Main.Version == "(devel)" || v.Main.Version == "" {
		return version
	}
	return v.Main.Version
}

func main() {
	if err := env.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	var opts options
	p := flags.NewParser(&opts, flags.Default)
	if _, err := p.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setupLog(opts.JSONLogs, opts.Debug)

	if err := run(opts); err != nil {
		slog.Error("collection failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := logx.ContextWithRunID(context.Background(), uuid.NewString())
	lg := slog.Default()
	ctx, cancel := graceful.Context(ctx, lg)
	defer cancel()

	lg.InfoCtx(ctx, "starting wikidump",
		slog.String("version", getVersion()),
		slog.String("lang", cfg.Lang),
		slog.Any("targets", cfg.Targets),
		slog.Int("count", cfg.Count),
	)

	client := wikipedia.NewClient(http.Client{}, cfg.UserAgent,
		logx.LoggingRoundTripper(lg.With(slog.String("prefix", "http")), logx.RoundTripperOpts{Level: slog.LevelDebug}),
	)

	c := &collector.Collector{
		Logger:   lg.With(slog.String("prefix", "collector")),
		Articles: wikipedia.NewArticleService(lg.With(slog.String("prefix", "wikipedia")), client),
	}

	if cfg.Kafka.Enabled() {
		pub := publish.NewKafkaPublisher(lg.With(slog.String("prefix", "kafka")), cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer func() {
			if err := pub.Close(); err != nil {
				lg.ErrorCtx(ctx, "close kafka publisher", slog.Any("err", err))
			}
		}()
		c.Publisher = pub
	}

	_, err = c.Run(ctx, collector.Params{
		Lang:    cfg.Lang,
		Targets: cfg.Targets,
		Count:   cfg.Count,
		Output:  cfg.Output,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Articles saved to %s\n", cfg.Output)
	return nil
}

// applyFlags overrides config values with the flags and env vars that were given.
func applyFlags(opts options, cfg *config.Config) {
	if opts.Lang != "" {
		cfg.Lang = opts.Lang
	}
	if len(opts.Targets) > 0 {
		cfg.Targets = opts.Targets
	}
	if opts.Count != nil {
		cfg.Count = *opts.Count
	}
	if opts.UserAgent != "" {
		cfg.UserAgent = opts.UserAgent
	}
	if opts.Kafka.Broker != "" {
		cfg.Kafka.Broker = opts.Kafka.Broker
	}
	if opts.Kafka.Topic != "" {
		cfg.Kafka.Topic = opts.Kafka.Topic
	}
	if opts.Args.Output != "" {
		cfg.Output = opts.Args.Output
	}
}

func setupLog(jsonLogs, dbg bool) {
	handler := slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}

	if dbg {
		handler.Level = slog.LevelDebug
		handler.AddSource = true
	}

	if jsonLogs {
		slog.SetDefault(slog.New(logx.Handler{Handler: handler.NewJSONHandler(os.Stderr)}))
		return
	}

	slog.SetDefault(slog.New(logx.Handler{Handler: handler.NewTextHandler(os.Stderr)}))
}
