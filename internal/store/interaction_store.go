package store

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"e2estore/internal/domain"
)

const (
	interactionsDir = "interactions"
	interactionExt  = ".bin"
)

// InteractionFileStore keeps one file per Interaction under
// <dir>/interactions, named by the hex interaction id.
type InteractionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewInteractionFileStore returns an InteractionFileStore rooted at dir.
func NewInteractionFileStore(dir string) *InteractionFileStore {
	return &InteractionFileStore{dir: dir}
}

func (s *InteractionFileStore) path(id domain.InteractionID) string {
	return filepath.Join(s.dir, interactionsDir, id.String()+interactionExt)
}

// LoadInteraction reads the stored bytes of id. ok is false when nothing has
// been stored under id.
func (s *InteractionFileStore) LoadInteraction(id domain.InteractionID) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readFile(s.path(id))
}

// ReplaceInteraction atomically replaces the stored bytes of id.
func (s *InteractionFileStore) ReplaceInteraction(id domain.InteractionID, b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Join(s.dir, interactionsDir), 0o700); err != nil {
		return err
	}
	return writeFile(s.path(id), b, 0o600)
}

// ListInteractions returns the ids of every stored Interaction in ascending
// order. Leftover temp files and foreign names are ignored.
func (s *InteractionFileStore) ListInteractions() ([]domain.InteractionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, interactionsDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []domain.InteractionID
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), interactionExt)
		if !ok || !e.Type().IsRegular() {
			continue
		}
		id, err := domain.ParseInteractionID(name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Compile-time assertion that InteractionFileStore implements domain.InteractionStore.
var _ domain.InteractionStore = (*InteractionFileStore)(nil)
