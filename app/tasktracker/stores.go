package main

import (
	"context"
	"fmt"

	"github.com/jrazmi/tasktracker/app/tasktracker/config"
	"github.com/jrazmi/tasktracker/app/tasktracker/health"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo/stores/tasksgormstore"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/tasktracker/infrastructure/databases/postgresdb"
	"github.com/jrazmi/tasktracker/infrastructure/databases/sqlitedb"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

// taskStore is an opened storage backend plus what the app needs to probe
// and release it.
type taskStore struct {
	storer tasksrepo.Storer
	probe  health.Probe
	close  func(ctx context.Context) error
}

func openStore(ctx context.Context, log *logger.Logger, driver string) (taskStore, error) {
	switch driver {
	case config.DriverPostgres:
		pool, err := postgresdb.NewFromEnv(appName, postgresdb.WithLogger(log.Logger))
		if err != nil {
			return taskStore{}, fmt.Errorf("configuring postgres support: %w", err)
		}
		return taskStore{
			storer: taskspgxstore.NewStore(log, pool),
			probe: health.Probe{Name: "postgres", Check: func(ctx context.Context) error {
				return postgresdb.StatusCheck(ctx, pool)
			}},
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverSQLite:
		db, err := sqlitedb.NewFromEnv(appName, sqlitedb.WithLogger(log.Logger))
		if err != nil {
			return taskStore{}, fmt.Errorf("configuring sqlite support: %w", err)
		}
		store := tasksgormstore.NewStore(log, db)
		if err := store.Migrate(ctx); err != nil {
			sqlitedb.Close(db)
			return taskStore{}, fmt.Errorf("migrating sqlite: %w", err)
		}
		return taskStore{
			storer: store,
			probe: health.Probe{Name: "sqlite", Check: func(ctx context.Context) error {
				return sqlitedb.StatusCheck(ctx, db)
			}},
			close: func(context.Context) error {
				return sqlitedb.Close(db)
			},
		}, nil
	}

	return taskStore{}, fmt.Errorf("unknown store driver %q", driver)
}
