package interaction_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"e2estore/internal/domain"
	"e2estore/internal/interaction"
)

// memStore is an in-memory InteractionStore whose writes can be made to fail.
type memStore struct {
	mu     sync.Mutex
	objs   map[domain.InteractionID][]byte
	fail   error
	writes int
}

var _ domain.InteractionStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{objs: make(map[domain.InteractionID][]byte)}
}

func (m *memStore) LoadInteraction(id domain.InteractionID) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objs[id]
	return append([]byte(nil), b...), ok, nil
}

func (m *memStore) ReplaceInteraction(id domain.InteractionID, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.objs[id] = append([]byte(nil), b...)
	m.writes++
	return nil
}

func (m *memStore) ListInteractions() ([]domain.InteractionID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []domain.InteractionID
	for id := range m.objs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) setFail(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

var (
	testID = domain.InteractionID{0x17}
	sendID = domain.StreamID{0x5e}
	peerA  = domain.StreamID{0xa}
	peerB  = domain.StreamID{0xb}
)

func reopen(t *testing.T, st *memStore) *interaction.Interaction {
	t.Helper()
	it, err := interaction.Open(st, testID)
	require.NoError(t, err)
	return it
}

func TestInteraction_TwoPeersThreeRecipients_Reload(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)

	require.NoError(t, it.AddPeer(peerA))
	require.NoError(t, it.AddPeer(peerB))
	require.NoError(t, it.Advance(peerB, 5))
	for i, name := range []string{"r0", "r1", "r2"} {
		require.Equal(t, i, it.AddRecipient(domain.SendKey{byte(i + 1)}, []byte(name)))
	}
	w := domain.Window{Start: 0, End: 1000, Public: domain.PublicKey{9}, Private: domain.SealedPrivateKey{8}}
	require.NoError(t, it.AppendKey(w))

	require.NoError(t, it.Put())
	require.NoError(t, it.SyncAll())

	got := reopen(t, st)
	require.Equal(t, []interaction.RecvStream{{ID: peerA, Position: 0}, {ID: peerB, Position: 5}}, got.Peers())

	send := got.SendStream()
	require.Equal(t, sendID, send.ID)
	require.Len(t, send.Recipients, 3)
	for i, r := range send.Recipients {
		require.Equal(t, domain.SendKey{byte(i + 1)}, r.Key)
		require.Equal(t, []byte{'r', byte('0' + i)}, r.Username)
	}

	sel, err := got.SelectKey(999)
	require.NoError(t, err)
	require.Equal(t, w, sel)
	_, err = got.SelectKey(1000)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.Equal(t, it.Save(), got.Save())
}

func TestInteraction_Advance(t *testing.T) {
	it := interaction.New(testID, sendID, newMemStore())
	require.NoError(t, it.AddPeer(peerA))

	require.NoError(t, it.Advance(peerA, 5))
	require.NoError(t, it.Advance(peerA, 5))
	err := it.Advance(peerA, 4)
	require.ErrorIs(t, err, domain.ErrPositionRegression)

	pos, err := it.Position(peerA)
	require.NoError(t, err)
	require.EqualValues(t, 5, pos)

	require.ErrorIs(t, it.Advance(peerB, 1), domain.ErrUnknownPeer)
	_, err = it.Position(peerB)
	require.ErrorIs(t, err, domain.ErrUnknownPeer)
}

func TestInteraction_AddPeer_Duplicate(t *testing.T) {
	it := interaction.New(testID, sendID, newMemStore())
	require.NoError(t, it.AddPeer(peerA))
	require.ErrorIs(t, it.AddPeer(peerA), domain.ErrDuplicatePeer)
	require.Len(t, it.Peers(), 1)
}

func TestInteraction_PutLeavesCursorsAlone(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)
	require.NoError(t, it.AddPeer(peerA))
	require.NoError(t, it.SyncAll())

	require.NoError(t, it.Advance(peerA, 7))
	it.AddRecipient(domain.SendKey{1}, []byte("r"))
	require.NoError(t, it.Put())

	got := reopen(t, st)
	require.Len(t, got.SendStream().Recipients, 1)
	pos, err := got.Position(peerA)
	require.NoError(t, err)
	require.EqualValues(t, 0, pos)

	require.NoError(t, it.SyncAll())
	pos, err = reopen(t, st).Position(peerA)
	require.NoError(t, err)
	require.EqualValues(t, 7, pos)
}

func TestInteraction_SyncAllLeavesSendSideAlone(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)
	require.NoError(t, it.AddPeer(peerA))
	it.AddRecipient(domain.SendKey{1}, []byte("r"))
	require.NoError(t, it.AppendKey(domain.Window{Start: 0, End: 10}))
	require.NoError(t, it.SyncAll())

	got := reopen(t, st)
	require.Len(t, got.Peers(), 1)
	require.Empty(t, got.SendStream().Recipients)
	require.Empty(t, got.Windows())
}

func TestInteraction_SyncOnePeer(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)
	require.NoError(t, it.AddPeer(peerA))
	require.NoError(t, it.AddPeer(peerB))
	require.NoError(t, it.SyncAll())

	require.NoError(t, it.Advance(peerA, 3))
	require.NoError(t, it.Advance(peerB, 4))
	require.NoError(t, it.Sync(peerA))

	got := reopen(t, st)
	require.Equal(t, []interaction.RecvStream{{ID: peerA, Position: 3}, {ID: peerB, Position: 0}}, got.Peers())

	require.ErrorIs(t, it.Sync(domain.StreamID{0xcc}), domain.ErrUnknownPeer)
}

func TestInteraction_SyncNewPeer(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)
	require.NoError(t, it.AddPeer(peerA))
	require.NoError(t, it.Advance(peerA, 2))
	require.NoError(t, it.Sync(peerA))

	pos, err := reopen(t, st).Position(peerA)
	require.NoError(t, err)
	require.EqualValues(t, 2, pos)
}

func TestInteraction_SyncKeepsPeerOrder(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)
	peerC := domain.StreamID{0xc}
	require.NoError(t, it.AddPeer(peerA))
	require.NoError(t, it.AddPeer(peerB))
	require.NoError(t, it.AddPeer(peerC))
	require.NoError(t, it.Advance(peerA, 4))

	require.NoError(t, it.Sync(peerC))
	require.Equal(t, []interaction.RecvStream{{ID: peerC, Position: 0}}, reopen(t, st).Peers())

	require.NoError(t, it.Sync(peerB))
	require.NoError(t, it.Sync(peerA))
	require.NoError(t, it.Put())

	got := reopen(t, st)
	require.Equal(t, it.Peers(), got.Peers())
	require.Equal(t, it.Save(), got.Save())
}

func TestInteraction_FailedFlushKeepsDurableState(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)
	require.NoError(t, it.AddPeer(peerA))
	require.NoError(t, it.Advance(peerA, 1))
	require.NoError(t, it.SyncAll())
	require.NoError(t, it.Put())
	before, _, _ := st.LoadInteraction(testID)

	diskFull := errors.New("disk full")
	st.setFail(diskFull)
	require.NoError(t, it.Advance(peerA, 9))
	it.AddRecipient(domain.SendKey{1}, []byte("r"))
	require.ErrorIs(t, it.SyncAll(), diskFull)
	require.ErrorIs(t, it.Put(), diskFull)

	after, _, _ := st.LoadInteraction(testID)
	require.Equal(t, before, after)

	pos, err := it.Position(peerA)
	require.NoError(t, err)
	require.EqualValues(t, 9, pos)

	// A later Put must not carry the cursor that failed to sync.
	st.setFail(nil)
	require.NoError(t, it.Put())
	got := reopen(t, st)
	pos, err = got.Position(peerA)
	require.NoError(t, err)
	require.EqualValues(t, 1, pos)
	require.Len(t, got.SendStream().Recipients, 1)
}

func TestInteraction_LoadHasNoStore(t *testing.T) {
	src := interaction.New(testID, sendID, nil)
	require.NoError(t, src.AddPeer(peerA))

	it, err := interaction.Load(testID, src.Save())
	require.NoError(t, err)
	require.Len(t, it.Peers(), 1)
	require.ErrorIs(t, it.Put(), interaction.ErrNoStore)
	require.ErrorIs(t, it.SyncAll(), interaction.ErrNoStore)
}

func TestInteraction_LoadRejectsCorruption(t *testing.T) {
	_, err := interaction.Load(testID, []byte{0x01})
	require.ErrorIs(t, err, &domain.FormatError{Kind: domain.Truncated})
}

func TestOpen_Missing(t *testing.T) {
	_, err := interaction.Open(newMemStore(), testID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInteraction_Keys(t *testing.T) {
	it := interaction.New(testID, sendID, newMemStore())
	require.NoError(t, it.AppendKey(domain.Window{Start: 0, End: 100, Public: domain.PublicKey{1}}))
	require.NoError(t, it.AppendKey(domain.Window{Start: 100, End: 250, Public: domain.PublicKey{2}}))
	require.ErrorIs(t, it.AppendKey(domain.Window{Start: 200, End: 300}), domain.ErrInvalidWindow)

	w, err := it.SelectKey(150)
	require.NoError(t, err)
	require.Equal(t, domain.PublicKey{2}, w.Public)

	newest, ok := it.NewestWindow()
	require.True(t, ok)
	require.EqualValues(t, 250, newest.End)

	require.Equal(t, 1, it.PruneKeys(100))
	require.Len(t, it.Windows(), 1)
}

func TestInteraction_ConcurrentAdvanceAndFlush(t *testing.T) {
	st := newMemStore()
	it := interaction.New(testID, sendID, st)
	peers := make([]domain.StreamID, 8)
	for i := range peers {
		peers[i] = domain.StreamID{byte(i + 1)}
		require.NoError(t, it.AddPeer(peers[i]))
	}

	var wg sync.WaitGroup
	for _, p := range peers {
		wg.Add(1)
		go func(p domain.StreamID) {
			defer wg.Done()
			for pos := uint64(1); pos <= 100; pos++ {
				if err := it.Advance(p, pos); err != nil {
					t.Error(err)
					return
				}
				if pos%10 == 0 {
					if err := it.SyncAll(); err != nil {
						t.Error(err)
						return
					}
				}
			}
		}(p)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			it.AddRecipient(domain.SendKey{byte(i)}, []byte{byte(i)})
			if err := it.Put(); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	require.NoError(t, it.SyncAll())
	got := reopen(t, st)
	for _, p := range peers {
		pos, err := got.Position(p)
		require.NoError(t, err)
		require.EqualValues(t, 100, pos)
	}
	require.Len(t, got.SendStream().Recipients, 20)
}
