package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/happykids/kidsdiag/internal/config"
	"github.com/happykids/kidsdiag/internal/diagnosis"
	"github.com/happykids/kidsdiag/internal/llm"
	"github.com/happykids/kidsdiag/internal/logging"
	"github.com/happykids/kidsdiag/internal/narrative"
	"github.com/happykids/kidsdiag/internal/profile"
	"github.com/happykids/kidsdiag/internal/store"
)

// env is what every command needs: config, a logger and the open store.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store

	logCloser io.Closer
}

// loadConfig reads the config file named by --config and applies flag
// overrides. It does not touch the database.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, io.Closer, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	logger, closer, err := logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("init logging: %w", err)
	}
	if cfg.Source != "" {
		logger.Debug("config loaded", "path", cfg.Source)
	}
	return cfg, logger, closer, nil
}

// openEnv loads config and opens the store. Callers must Close it.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, logger, closer, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger, logCloser: closer}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath, store.WithCompression(cfg.Storage.Compress))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = s
	logger.Debug("store opened", "path", dbPath)
	return e, nil
}

func (e *env) Close() error {
	var errs []error
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	if e.logCloser != nil {
		errs = append(errs, e.logCloser.Close())
	}
	return errors.Join(errs...)
}

// loadCatalog returns the configured catalog or the built-in one.
func loadCatalog(cfg config.Config) (*diagnosis.Catalog, error) {
	vocab := cfg.Profile().Vocabulary()
	if cfg.Catalog.Path == "" {
		return diagnosis.DefaultCatalog(vocab)
	}
	return diagnosis.LoadCatalog(cfg.Catalog.Path, vocab)
}

func (e *env) engine(noJitter bool) (*profile.Engine, error) {
	cat, err := loadCatalog(e.cfg)
	if err != nil {
		return nil, err
	}
	pc := e.cfg.Profile()
	if noJitter {
		pc.Jitter = false
	}
	return profile.NewEngine(pc, cat), nil
}

// narrator builds the narrative service, or returns nil when narratives are
// disabled or the provider cannot be configured. force enables it for one
// run regardless of the config switch.
func (e *env) narrator(cmd *cobra.Command, force bool) *narrative.Service {
	nc := e.cfg.Narrative
	if !nc.Enabled && !force {
		return nil
	}
	provider, err := llm.NewProvider(cmd.Context(), nc.LLM(), e.store.EventRepo(), e.logger)
	if err != nil {
		e.logger.Warn("narrative disabled", "provider", nc.Provider, "err", err)
		return nil
	}
	return narrative.NewService(provider, narrative.DefaultConfig(), e.cfg.Profile().Quality, e.logger)
}
