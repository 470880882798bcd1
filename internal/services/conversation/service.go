package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/grailbio/base/log"
	"golang.org/x/sync/errgroup"

	"e2estore/internal/crypto"
	"e2estore/internal/domain"
	"e2estore/internal/engine"
	"e2estore/internal/interaction"
	"e2estore/internal/util/memzero"
)

// DefaultParallelism bounds concurrent flushes and checks when New is given
// a non-positive limit.
const DefaultParallelism = 8

// Service performs Interaction operations and persists their results.
//
// Every mutating call flushes the part of the Interaction it touched:
// send-side changes go through Put, cursor changes through Sync.
type Service struct {
	store domain.InteractionStore
	key   domain.StorageKey
	limit int

	mu   sync.Mutex
	open map[domain.InteractionID]*interaction.Interaction
}

// New constructs a Service over store. key seals private keys and usernames.
func New(store domain.InteractionStore, key domain.StorageKey, parallelism int) *Service {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	return &Service{
		store: store,
		key:   key,
		limit: parallelism,
		open:  make(map[domain.InteractionID]*interaction.Interaction),
	}
}

// get returns the cached Interaction for id, loading it on first use.
func (s *Service) get(id domain.InteractionID) (*interaction.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if it, ok := s.open[id]; ok {
		return it, nil
	}
	it, err := interaction.Open(s.store, id)
	if err != nil {
		return nil, err
	}
	s.open[id] = it
	return it, nil
}

// Create starts a new Interaction with random identifiers and stores it.
func (s *Service) Create() (domain.InteractionID, error) {
	id, err := crypto.NewInteractionID()
	if err != nil {
		return id, err
	}
	sendID, err := crypto.NewStreamID()
	if err != nil {
		return id, err
	}
	it := interaction.New(id, sendID, s.store)
	if err := it.Put(); err != nil {
		return id, err
	}

	s.mu.Lock()
	s.open[id] = it
	s.mu.Unlock()

	log.Debug.Printf("created interaction %s send stream %s", id, sendID)
	return id, nil
}

// RecipientInfo is one recipient with its username opened.
type RecipientInfo struct {
	Index    int
	Key      domain.SendKey
	Username string
}

// AddRecipient generates a send key for username, seals the username and
// persists the send stream.
func (s *Service) AddRecipient(id domain.InteractionID, username string) (RecipientInfo, error) {
	it, err := s.get(id)
	if err != nil {
		return RecipientInfo{}, err
	}
	key, err := crypto.NewSendKey()
	if err != nil {
		return RecipientInfo{}, err
	}
	sealed, err := crypto.SealUsername(s.key, id, username)
	if err != nil {
		return RecipientInfo{}, err
	}
	idx := it.AddRecipient(key, sealed)
	if err := it.Put(); err != nil {
		return RecipientInfo{}, err
	}
	return RecipientInfo{Index: idx, Key: key, Username: username}, nil
}

// Recipients lists the send stream's recipients in order.
func (s *Service) Recipients(id domain.InteractionID) ([]RecipientInfo, error) {
	it, err := s.get(id)
	if err != nil {
		return nil, err
	}
	send := it.SendStream()
	out := make([]RecipientInfo, len(send.Recipients))
	for i, r := range send.Recipients {
		name, err := crypto.OpenUsername(s.key, id, r.Username)
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		out[i] = RecipientInfo{Index: i, Key: r.Key, Username: name}
	}
	return out, nil
}

// AddPeer starts tracking a remote stream and persists its cursor.
func (s *Service) AddPeer(id domain.InteractionID, peer domain.StreamID) error {
	it, err := s.get(id)
	if err != nil {
		return err
	}
	if err := it.AddPeer(peer); err != nil {
		return err
	}
	return it.Sync(peer)
}

// Peers lists the receive streams of id.
func (s *Service) Peers(id domain.InteractionID) ([]interaction.RecvStream, error) {
	it, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return it.Peers(), nil
}

// Advance moves a peer cursor and persists it.
func (s *Service) Advance(id domain.InteractionID, peer domain.StreamID, pos uint64) error {
	it, err := s.get(id)
	if err != nil {
		return err
	}
	if err := it.Advance(peer, pos); err != nil {
		return err
	}
	return it.Sync(peer)
}

// Rotate generates a DH key pair for positions [start, end), where start is
// the end of the newest window or 0 for an empty table. The private key is
// sealed before it is stored.
func (s *Service) Rotate(id domain.InteractionID, end uint64) (domain.Window, error) {
	it, err := s.get(id)
	if err != nil {
		return domain.Window{}, err
	}
	var start uint64
	if newest, ok := it.NewestWindow(); ok {
		start = newest.End
	}
	if end <= start {
		return domain.Window{}, fmt.Errorf("%w: end %d must be after %d", domain.ErrInvalidWindow, end, start)
	}

	priv, pub, err := engine.GenerateDHKeys()
	if err != nil {
		return domain.Window{}, err
	}
	defer memzero.Zero(priv[:])
	sealed, err := crypto.SealPrivateKey(s.key, id, start, priv)
	if err != nil {
		return domain.Window{}, err
	}

	w := domain.Window{Start: start, End: end, Public: pub, Private: sealed}
	if err := it.AppendKey(w); err != nil {
		return domain.Window{}, err
	}
	if err := it.Put(); err != nil {
		return domain.Window{}, err
	}
	log.Debug.Printf("interaction %s: rotated key for [%d,%d) %s", id, start, end, crypto.Fingerprint(pub))
	return w, nil
}

// SelectKey returns the window covering pos.
func (s *Service) SelectKey(id domain.InteractionID, pos uint64) (domain.Window, error) {
	it, err := s.get(id)
	if err != nil {
		return domain.Window{}, err
	}
	return it.SelectKey(pos)
}

// PruneKeys drops windows ending at or before pos and persists the table.
func (s *Service) PruneKeys(id domain.InteractionID, pos uint64) (int, error) {
	it, err := s.get(id)
	if err != nil {
		return 0, err
	}
	n := it.PruneKeys(pos)
	if n == 0 {
		return 0, nil
	}
	return n, it.Put()
}

// Receive decrypts the message at pos on a peer stream and moves that
// peer's cursor past it.
//
// Steps:
//  1. Refuse positions the cursor has already passed.
//  2. Select the key window covering pos and open its private key.
//  3. Decrypt the components, verifying them when v is non-nil.
//  4. Advance the cursor to pos+1 and persist it.
func (s *Service) Receive(id domain.InteractionID, peer domain.StreamID, pos uint64, msg []byte, v *engine.Verifier) ([]byte, error) {
	it, err := s.get(id)
	if err != nil {
		return nil, err
	}
	cur, err := it.Position(peer)
	if err != nil {
		return nil, err
	}
	if pos < cur {
		return nil, fmt.Errorf("%w: stream %s at %d, message at %d",
			domain.ErrPositionRegression, peer, cur, pos)
	}

	w, err := it.SelectKey(pos)
	if err != nil {
		return nil, err
	}
	priv, err := crypto.OpenPrivateKey(s.key, id, w.Start, w.Private)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(priv[:])

	c, err := engine.UnmarshalComponents(msg)
	if err != nil {
		return nil, err
	}
	pt, _, err := engine.Decrypt(v, c, engine.DecryptKeys{DH: priv})
	if err != nil {
		return nil, fmt.Errorf("decrypt message %d from %s: %w", pos, peer, err)
	}

	if err := it.Advance(peer, pos+1); err != nil {
		return nil, err
	}
	if err := it.Sync(peer); err != nil {
		return nil, err
	}
	return pt, nil
}

// View is a read-only copy of one Interaction.
type View struct {
	ID      domain.InteractionID
	Send    interaction.SendStream
	Peers   []interaction.RecvStream
	Windows []domain.Window
}

// Inspect returns a copy of the in-memory state of id.
func (s *Service) Inspect(id domain.InteractionID) (View, error) {
	it, err := s.get(id)
	if err != nil {
		return View{}, err
	}
	return View{ID: id, Send: it.SendStream(), Peers: it.Peers(), Windows: it.Windows()}, nil
}

// FlushAll persists the full state of every open Interaction, running at
// most the configured number of flushes at once. Flushes already started
// run to completion when ctx is cancelled.
func (s *Service) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	its := make([]*interaction.Interaction, 0, len(s.open))
	for _, it := range s.open {
		its = append(its, it)
	}
	s.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for _, it := range its {
		it := it
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.SyncAll(); err != nil {
				return err
			}
			return it.Put()
		})
	}
	if err := g.Wait(); err != nil {
		log.Error.Printf("flush: %v", err)
		return err
	}
	log.Debug.Printf("flushed %d interactions", len(its))
	return nil
}

// CheckResult is the outcome of decoding one stored Interaction. Err is nil
// for a healthy Interaction.
type CheckResult struct {
	ID  domain.InteractionID
	Err error
}

// Check decodes every stored Interaction concurrently. Decoding failures are
// reported per Interaction; storage failures abort the check.
func (s *Service) Check(ctx context.Context) ([]CheckResult, error) {
	ids, err := s.store.ListInteractions()
	if err != nil {
		return nil, err
	}
	results := make([]CheckResult, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, ok, err := s.store.LoadInteraction(id)
			if err != nil {
				return err
			}
			results[i].ID = id
			if !ok {
				results[i].Err = fmt.Errorf("%w: %s", domain.ErrNotFound, id)
				return nil
			}
			if _, err := interaction.Load(id, b); err != nil {
				results[i].Err = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bad := 0
	for _, r := range results {
		var fe *domain.FormatError
		if errors.As(r.Err, &fe) {
			bad++
			log.Error.Printf("interaction %s: %v", r.ID, r.Err)
		}
	}
	log.Printf("checked %d interactions, %d corrupt", len(results), bad)
	return results, nil
}
