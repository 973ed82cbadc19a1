package cli

import (
	"context"

	"github.com/spf13/cobra"

	"justdoit/internal/config"
	"justdoit/internal/store"
	"justdoit/internal/tasks"
)

// app bundles what every command needs.
type app struct {
	cfg   *config.Config
	store store.Store
	ctrl  *tasks.Controller
}

func openApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.SetupLogging()

	ids, err := tasks.NewIDGenerator(cfg.IDScheme)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		store: s,
		ctrl:  tasks.NewController(s, ids),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
