package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prabalesh/tasktop/internal/collector"
	"github.com/prabalesh/tasktop/internal/config"
	"github.com/prabalesh/tasktop/internal/models"
	"github.com/prabalesh/tasktop/internal/session"
	"github.com/prabalesh/tasktop/internal/table"
	"github.com/prabalesh/tasktop/internal/ui"
)

type rootOptions struct {
	configPath string
	source     string
	logFile    string
	logLevel   string
	interval   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "tasktop",
		Short: "Sortable process table with kill support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			sess, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("starting viewer", "source", collector.ResolveSource(cfg.Source), "interval", cfg.RefreshInterval.Duration)
			return ui.Run(ui.NewApp(sess, ui.Options{
				RefreshInterval: cfg.RefreshInterval.Duration,
				Logger:          logger,
			}))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "f", config.DefaultPath(), "Path to a TOML or YAML config file")
	flags.StringVar(&opts.source, "source", "", "Capture source: auto, command or process")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	root.Flags().DurationVar(&opts.interval, "interval", 0, "Refresh interval, 0 disables periodic refresh")

	root.AddCommand(newDumpCmd(opts))

	root.SilenceUsage = true
	root.SilenceErrors = true
	return root
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	var (
		sortKey string
		invert  bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print one rendered table and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("sort") {
				key, err := models.ParseSortKey(sortKey)
				if err != nil {
					return err
				}
				cfg.Sort.Key = key
			}
			if cmd.Flags().Changed("invert") {
				cfg.Sort.Inverted = invert
			}

			logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			sess, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			return dump(cmd.Context(), cmd.OutOrStdout(), sess)
		},
	}

	names := make([]string, 0, len(models.SortKeys()))
	for _, k := range models.SortKeys() {
		names = append(names, k.String())
	}
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "", "Sort key: "+strings.Join(names, ", "))
	cmd.Flags().BoolVarP(&invert, "invert", "r", false, "Invert the sort direction")
	return cmd
}

func dump(ctx context.Context, w io.Writer, sess *session.Session) error {
	text, err := sess.Render(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// loadConfig reads the config file, then applies flags the user set
// explicitly.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = opts.source
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("interval") {
		cfg.RefreshInterval.Duration = opts.interval
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to cfg.LogFile when set, otherwise to fallback.
func newLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func() error, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	w := fallback
	closeFn := func() error { return nil }
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}
	if w == io.Discard {
		return slog.New(slog.DiscardHandler), closeFn, nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// buildFilter turns the exclude section into the line filter.
func buildFilter(cfg *config.Config) (table.Filter, error) {
	patterns, err := table.PatternPredicate(cfg.Exclude.Patterns...)
	if err != nil {
		return table.Filter{}, err
	}
	filter := table.DefaultFilter()
	filter.Exclude = table.AnyOf(table.PrefixPredicate(cfg.Exclude.Prefixes...), patterns)
	return filter, nil
}

func newSession(cfg *config.Config, logger *slog.Logger) (*session.Session, error) {
	capturer, terminator, err := collector.New(collector.Options{
		Source:         cfg.Source,
		CaptureArgs:    cfg.Command.Capture,
		TerminateArgs:  cfg.Command.Terminate,
		CaptureTimeout: cfg.CaptureTimeout.Duration,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	return buildSession(cfg, capturer, terminator, logger)
}

func buildSession(cfg *config.Config, capturer collector.Capturer, terminator collector.Terminator, logger *slog.Logger) (*session.Session, error) {
	filter, err := buildFilter(cfg)
	if err != nil {
		return nil, err
	}
	engine := table.NewEngine(models.DefaultSchema(), filter, cfg.LanguageTag())
	cache := collector.NewSnapshotCache(capturer, logger)
	state := models.SortState{Key: cfg.Sort.Key, Inverted: cfg.Sort.Inverted}
	return session.New(engine, cache, terminator, state, logger), nil
}
