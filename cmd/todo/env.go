package main

import (
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/SangamNirala/TodoList/internal/api"
	"github.com/SangamNirala/TodoList/internal/config"
	"github.com/SangamNirala/TodoList/internal/decompose"
	"github.com/SangamNirala/TodoList/internal/state"
	"github.com/SangamNirala/TodoList/internal/store"
	"github.com/SangamNirala/TodoList/pkg/models"
)

// appEnv bundles what every command needs: configuration, the snapshot
// database, and the in-memory task store restored from it.
type appEnv struct {
	cfg    *config.Config
	db     *state.DB
	store  *store.Store
	dbPath string
}

// openEnv loads configuration, opens the snapshot database, and
// restores the task store from the last snapshot.
func openEnv() (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath = state.DefaultPath()
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open task database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate task database: %w", err)
	}

	st := store.New()
	blob, err := db.LoadSnapshot(state.SnapshotName)
	if err != nil {
		// A broken snapshot should not lock the user out of their list
		log.Printf("warning: could not read last snapshot: %v", err)
	}
	st.Restore(blob)

	return &appEnv{cfg: cfg, db: db, store: st, dbPath: dbPath}, nil
}

// save serializes the store and writes it to the snapshot table.
func (e *appEnv) save() error {
	blob, err := e.store.Snapshot()
	if err != nil {
		return fmt.Errorf("serialize tasks: %w", err)
	}
	if err := e.db.SaveSnapshot(state.SnapshotName, blob); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// close releases the snapshot database.
func (e *appEnv) close() {
	if err := e.db.Close(); err != nil {
		log.Printf("warning: close task database: %v", err)
	}
}

// taskByIndex resolves a 1-based display index against the filtered view,
// matching the numbering printed by `todo list`.
func taskByIndex(st *store.Store, f models.Filter, n int) (models.Task, error) {
	tasks := st.Tasks(f)
	if n < 1 || n > len(tasks) {
		return models.Task{}, fmt.Errorf("task number out of range: %d", n)
	}
	return tasks[n-1], nil
}

// newGenerator builds the breakdown generator from configuration. When
// credentials are missing, the returned generator fails with a clear
// error instead of aborting the whole command.
func newGenerator(cfg *config.Config) decompose.Generator {
	clientCfg := api.ClientConfig{
		Model:         anthropic.Model(cfg.Generation.Model),
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
		Timeout:       cfg.Generation.Timeout,
	}

	if !cfg.Anthropic.UseAWSBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return decompose.Unavailable(fmt.Errorf("generation service unavailable: %w", err))
		}
		if err := config.ValidateAPIKey(key); err != nil {
			// A malformed key still gets sent; the API is the authority
			log.Printf("warning: %v", err)
		}
		clientCfg.APIKey = key
	}

	client, err := api.NewClient(clientCfg)
	if err != nil {
		return decompose.Unavailable(fmt.Errorf("generation service unavailable: %w", err))
	}
	return client
}
