package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grailbio/base/log"

	"e2estore/internal/crypto"
	"e2estore/internal/domain"
	"e2estore/internal/services/conversation"
	"e2estore/internal/store"
)

// ErrNotInitialised is returned when no storage key has been created yet.
var ErrNotInitialised = errors.New("no storage key; run init first")

// Wire bundles the storage media for the CLI.
type Wire struct {
	Config       Config
	Keys         domain.StorageKeyStore
	Interactions domain.InteractionStore

	close func() error
}

// NewWire constructs the storage graph from cfg, creating the home
// directory if needed.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	w := &Wire{
		Config: cfg,
		Keys:   store.NewKeyFileStore(cfg.Home),
		close:  func() error { return nil },
	}

	switch cfg.Backend {
	case BackendSQLite:
		sq, err := store.OpenSQLite(filepath.Join(cfg.Home, store.SQLiteFilename))
		if err != nil {
			return nil, err
		}
		w.Interactions = sq
		w.close = sq.Close
	default:
		w.Interactions = store.NewInteractionFileStore(cfg.Home)
	}
	log.Debug.Printf("home %s backend %s", cfg.Home, cfg.Backend)
	return w, nil
}

// Close releases the storage medium.
func (w *Wire) Close() error { return w.close() }

// Shutdown flushes svc, when non-nil, then closes the storage medium. The
// medium is closed even when the flush fails; the first error is returned.
func (w *Wire) Shutdown(ctx context.Context, svc *conversation.Service) error {
	var err error
	if svc != nil {
		err = svc.FlushAll(ctx)
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}

// InitStorageKey creates and saves a storage key under passphrase. It fails
// if one exists and opens with passphrase.
func (w *Wire) InitStorageKey(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	if _, ok, err := w.Keys.LoadStorageKey(passphrase); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("storage key already exists in %s", w.Config.Home)
	}
	key, err := crypto.NewStorageKey()
	if err != nil {
		return err
	}
	if err := w.Keys.SaveStorageKey(passphrase, key); err != nil {
		return err
	}
	log.Printf("storage key created in %s", w.Config.Home)
	return nil
}

// Conversations opens the storage key and returns a service over the
// configured medium.
func (w *Wire) Conversations(passphrase string) (*conversation.Service, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase required (-p)")
	}
	key, ok, err := w.Keys.LoadStorageKey(passphrase)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialised
	}
	return conversation.New(w.Interactions, key, w.Config.FlushParallelism), nil
}
