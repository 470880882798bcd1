package interaction

import (
	"errors"
	"fmt"
	"sync"

	"e2estore/internal/domain"
	"e2estore/internal/ratchet"
)

// ErrNoStore is returned by flushes on an Interaction that has no storage
// medium, such as one built by Load.
var ErrNoStore = errors.New("interaction has no storage medium")

// Interaction is the aggregate owning one send stream, the receive streams
// of every known peer and the key ratchet table.
type Interaction struct {
	id domain.InteractionID

	mu    sync.Mutex // guards send, recv, peers and keys together
	send  SendStream
	recv  []RecvStream
	peers map[domain.StreamID]int // index into recv
	keys  *ratchet.Table

	flushMu sync.Mutex // serialises flushes and guards durable
	store   domain.InteractionStore
	durable snapshot // what the store holds after the last successful flush
}

// New returns an empty Interaction backed by store. Nothing is written until
// the first flush.
func New(id domain.InteractionID, sendID domain.StreamID, store domain.InteractionStore) *Interaction {
	send := SendStream{ID: sendID}
	return &Interaction{
		id:      id,
		send:    send,
		peers:   make(map[domain.StreamID]int),
		keys:    &ratchet.Table{},
		store:   store,
		durable: snapshot{send: send.clone()},
	}
}

// Load decodes an Interaction from b. The result has no storage medium.
func Load(id domain.InteractionID, b []byte) (*Interaction, error) {
	s, tbl, err := decodeSnapshot(b)
	if err != nil {
		return nil, err
	}
	it := &Interaction{
		id:      id,
		send:    s.send.clone(),
		recv:    append([]RecvStream(nil), s.recv...),
		peers:   make(map[domain.StreamID]int, len(s.recv)),
		keys:    tbl,
		durable: s,
	}
	for i, r := range it.recv {
		it.peers[r.ID] = i
	}
	return it, nil
}

// Open loads the Interaction stored under id and binds it to store.
func Open(store domain.InteractionStore, id domain.InteractionID) (*Interaction, error) {
	b, ok, err := store.LoadInteraction(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	it, err := Load(id, b)
	if err != nil {
		return nil, fmt.Errorf("decode interaction %s: %w", id, err)
	}
	it.store = store
	return it, nil
}

// ID returns the interaction identifier.
func (it *Interaction) ID() domain.InteractionID { return it.id }

// Save encodes the current in-memory state.
func (it *Interaction) Save() []byte {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.current().encode()
}

// current copies the live state. it.mu must be held.
func (it *Interaction) current() snapshot {
	return snapshot{
		recv: append([]RecvStream(nil), it.recv...),
		send: it.send.clone(),
		keys: it.keys.Windows(),
	}
}

// ---------- send side ----------

// SendStream returns a copy of the send stream.
func (it *Interaction) SendStream() SendStream {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.send.clone()
}

// AddRecipient appends a recipient and returns its index. username must
// already be encrypted.
func (it *Interaction) AddRecipient(key domain.SendKey, username []byte) int {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.send.Recipients = append(it.send.Recipients, domain.Recipient{
		Key:      key,
		Username: append([]byte(nil), username...),
	})
	return len(it.send.Recipients) - 1
}

// ---------- receive side ----------

// Peers returns a copy of the receive streams in storage order.
func (it *Interaction) Peers() []RecvStream {
	it.mu.Lock()
	defer it.mu.Unlock()
	return append([]RecvStream(nil), it.recv...)
}

// AddPeer starts tracking a newly observed peer stream at position 0.
func (it *Interaction) AddPeer(id domain.StreamID) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if _, ok := it.peers[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicatePeer, id)
	}
	it.peers[id] = len(it.recv)
	it.recv = append(it.recv, RecvStream{ID: id})
	return nil
}

// Position returns the cursor of one peer stream.
func (it *Interaction) Position(peer domain.StreamID) (uint64, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	i, ok := it.peers[peer]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownPeer, peer)
	}
	return it.recv[i].Position, nil
}

// Advance moves one peer cursor forward. Moving to the current position is
// allowed; moving backwards fails with ErrPositionRegression.
func (it *Interaction) Advance(peer domain.StreamID, pos uint64) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	i, ok := it.peers[peer]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownPeer, peer)
	}
	return it.recv[i].advance(pos)
}

// ---------- key ratchet ----------

// Windows returns a copy of the key windows in ascending start order.
func (it *Interaction) Windows() []domain.Window {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.keys.Windows()
}

// NewestWindow returns the most recently appended key window.
func (it *Interaction) NewestWindow() (domain.Window, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.keys.Newest()
}

// AppendKey adds a rotated key window. See ratchet.Table.Append.
func (it *Interaction) AppendKey(w domain.Window) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.keys.Append(w)
}

// SelectKey returns the key window covering pos.
func (it *Interaction) SelectKey(pos uint64) (domain.Window, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.keys.Select(pos)
}

// PruneKeys drops key windows ending at or before pos.
func (it *Interaction) PruneKeys(pos uint64) int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.keys.Prune(pos)
}

// ---------- flushing ----------

// Put persists the send stream and the key table. Receive cursors are
// written as they were at the last successful SyncAll or Sync.
func (it *Interaction) Put() error {
	it.flushMu.Lock()
	defer it.flushMu.Unlock()

	it.mu.Lock()
	next := snapshot{
		recv: it.durable.recv,
		send: it.send.clone(),
		keys: it.keys.Windows(),
	}
	it.mu.Unlock()
	return it.flush(next)
}

// SyncAll persists every receive cursor as one atomic unit.
func (it *Interaction) SyncAll() error {
	it.flushMu.Lock()
	defer it.flushMu.Unlock()

	it.mu.Lock()
	next := snapshot{
		recv: append([]RecvStream(nil), it.recv...),
		send: it.durable.send,
		keys: it.durable.keys,
	}
	it.mu.Unlock()
	return it.flush(next)
}

// Sync persists the cursor of one peer stream. Other peers keep their last
// persisted cursor, and peers never persisted stay out of storage. The
// stored streams follow the in-memory order.
func (it *Interaction) Sync(peer domain.StreamID) error {
	it.flushMu.Lock()
	defer it.flushMu.Unlock()

	it.mu.Lock()
	if _, ok := it.peers[peer]; !ok {
		it.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrUnknownPeer, peer)
	}
	durable := make(map[domain.StreamID]uint64, len(it.durable.recv))
	for _, r := range it.durable.recv {
		durable[r.ID] = r.Position
	}
	recv := make([]RecvStream, 0, len(it.recv))
	for _, r := range it.recv {
		if r.ID == peer {
			recv = append(recv, r)
			continue
		}
		if pos, ok := durable[r.ID]; ok {
			recv = append(recv, RecvStream{ID: r.ID, Position: pos})
		}
	}
	it.mu.Unlock()

	return it.flush(snapshot{recv: recv, send: it.durable.send, keys: it.durable.keys})
}

// flush writes next and records it as durable. it.flushMu must be held.
func (it *Interaction) flush(next snapshot) error {
	if it.store == nil {
		return ErrNoStore
	}
	if err := it.store.ReplaceInteraction(it.id, next.encode()); err != nil {
		return fmt.Errorf("flush interaction %s: %w", it.id, err)
	}
	it.durable = next
	return nil
}
