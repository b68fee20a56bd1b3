package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emotiquest/emotiquest/internal/config"
	"github.com/emotiquest/emotiquest/internal/flow"
	"github.com/emotiquest/emotiquest/internal/insight"
	"github.com/emotiquest/emotiquest/internal/llm"
	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/quiz"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/store"
)

// deps are the services a command works with. Close releases them.
type deps struct {
	cfg     config.Config
	log     *logging.Logger
	store   *store.Store
	insight *insight.Service
}

// openDeps loads the config, builds the logger and opens the store. With
// toFile set, logs go to the configured log file instead of stderr.
func openDeps(cmd *cobra.Command, toFile bool) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	opts := logging.Options{Mode: cfg.Logging.Mode, Level: cfg.Logging.Level}
	if toFile {
		opts.File = cfg.LogFile(dbPath)
	}
	log, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(dbPath, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)
	return &deps{cfg: cfg, log: log, store: st}, nil
}

// withInsight builds the insight service. The app works without a provider;
// a configuration problem is reported and the catalog messages are used.
func (d *deps) withInsight(cmd *cobra.Command) {
	provider, err := llm.NewProvider(cmd.Context(), d.cfg.LLM, d.store.EventRepo(), d.log)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		d.log.Info("llm provider not configured")
	case err != nil:
		d.log.Warn("llm provider unavailable", "error", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider not configured:", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "AI features will be unavailable.")
		provider = nil
	}
	d.insight = insight.NewService(provider, insight.DefaultConfig(), d.log)
}

// env builds the screen environment with a fresh flow controller.
func (d *deps) env() (*screen.Env, error) {
	opts := flow.Options{Log: d.log}
	if d.cfg.BankPath != "" {
		bank, err := quiz.LoadBankFile(d.cfg.BankPath)
		if err != nil {
			return nil, fmt.Errorf("load question bank: %w", err)
		}
		opts.Bank = bank
	}
	c, err := flow.New(d.store, opts)
	if err != nil {
		return nil, fmt.Errorf("init flow: %w", err)
	}
	return &screen.Env{
		Flow:    c,
		Store:   d.store,
		Insight: d.insight,
		Log:     d.log,
		Version: version,
	}, nil
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.log.Warn("close store", "error", err)
	}
	d.log.Sync()
}
