package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/activity"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/kv"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/render"
)

// errInvalid is returned when a submission fails validation. The field
// errors have already been printed by the presenter.
var errInvalid = errors.New("invalid transaction")

// session is one opened ledger: config, backend, store, presenter and controller.
type session struct {
	dir     string
	cfg     *config.Config
	log     zerolog.Logger
	backend kv.Store
	store   *ledger.Store
	view    *render.Text
	ctrl    *ledger.Controller
}

// loadConfig reads tally.yaml and .env from dir and validates the result.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openSession(cmd *cobra.Command, opts *rootOptions, viewOpts ...render.TextOption) (*session, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}
	opts.applyLogLevel(cfg)
	log := opts.log.With().Str("backend", cfg.Storage.Backend).Logger()

	backend, err := kv.Open(cfg.Storage.Backend, cfg.StoragePath(dir))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	store := ledger.NewStore(backend, ledger.WithKey(cfg.Storage.Key))
	if err := store.Load(); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("%w (run 'tally reset --yes' to back up the stored value and start empty)", err)
	}
	log.Debug().Int("transactions", store.Len()).Str("key", store.Key()).Msg("ledger loaded")

	view := render.NewText(cmd.OutOrStdout(), cfg.Display.Currency, viewOpts...)
	ctrl := ledger.NewController(store, view,
		ledger.WithLogger(log),
		ledger.WithFlashDuration(cfg.FlashDuration()),
		ledger.WithAuditor(activity.NewLog(dir)),
	)

	return &session{
		dir:     dir,
		cfg:     cfg,
		log:     log,
		backend: backend,
		store:   store,
		view:    view,
		ctrl:    ctrl,
	}, nil
}

func (s *session) Close() {
	s.ctrl.Close()
	if err := s.backend.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing storage")
	}
}

// commit snapshots the data directory when auto-commit is enabled and the
// directory is a git repository. Failures are logged, never returned.
func (s *session) commit(message string) {
	if !s.cfg.Git.AutoCommit || !gitops.IsRepo(s.dir) {
		return
	}
	hash, err := gitops.CommitIfChanged(s.dir, message, s.cfg.Git.AuthorName, s.cfg.Git.AuthorEmail)
	if err != nil {
		s.log.Warn().Err(err).Msg("auto-commit failed")
		return
	}
	if hash != "" {
		s.log.Debug().Str("commit", hash).Msg(message)
	}
}

// currency returns the configured display currency.
func (s *session) currency() string { return s.cfg.Display.Currency }
