package ratchet

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/must"

	"e2estore/internal/domain"
)

// Table is an ordered, contiguous set of key windows. The zero value is an
// empty table. Table is not safe for concurrent use; the owning Interaction
// serialises access.
type Table struct {
	windows []domain.Window
}

// FromWindows builds a table from windows already in storage order. It
// returns a WindowOrder FormatError when the windows are empty, overlap or
// leave gaps.
func FromWindows(ws []domain.Window) (*Table, error) {
	t := &Table{windows: make([]domain.Window, 0, len(ws))}
	for i, w := range ws {
		if err := t.check(w); err != nil {
			return nil, &domain.FormatError{
				Kind:  domain.WindowOrder,
				Field: fmt.Sprintf("recv_keys[%d]", i),
				Err:   err,
			}
		}
		t.windows = append(t.windows, w)
	}
	return t, nil
}

// Len returns the number of windows.
func (t *Table) Len() int { return len(t.windows) }

// Windows returns a copy of the windows in ascending Start order.
func (t *Table) Windows() []domain.Window {
	return append([]domain.Window(nil), t.windows...)
}

// Newest returns the window with the greatest Start.
func (t *Table) Newest() (domain.Window, bool) {
	if len(t.windows) == 0 {
		return domain.Window{}, false
	}
	return t.windows[len(t.windows)-1], true
}

// Append adds w after the newest window. w must be non-empty and, unless the
// table is empty, start exactly where the newest window ends. The table is
// unchanged when Append fails.
func (t *Table) Append(w domain.Window) error {
	if err := t.check(w); err != nil {
		return err
	}
	t.windows = append(t.windows, w)
	return nil
}

func (t *Table) check(w domain.Window) error {
	if w.Start >= w.End {
		return fmt.Errorf("%w: [%d,%d) is empty", domain.ErrInvalidWindow, w.Start, w.End)
	}
	if last, ok := t.Newest(); ok && w.Start != last.End {
		return fmt.Errorf("%w: [%d,%d) does not follow [%d,%d)",
			domain.ErrInvalidWindow, w.Start, w.End, last.Start, last.End)
	}
	return nil
}

// Select returns the window whose range contains pos.
func (t *Table) Select(pos uint64) (domain.Window, error) {
	// First window starting after pos; the candidate is the one before it.
	i := sort.Search(len(t.windows), func(i int) bool { return t.windows[i].Start > pos })
	if i == 0 {
		return domain.Window{}, fmt.Errorf("%w: %d", domain.ErrKeyNotFound, pos)
	}
	w := t.windows[i-1]
	must.Truef(w.Start <= pos, "window [%d,%d) selected for %d", w.Start, w.End, pos)
	if !w.Contains(pos) {
		return domain.Window{}, fmt.Errorf("%w: %d", domain.ErrKeyNotFound, pos)
	}
	return w, nil
}

// Prune drops every window that ends at or before pos and reports how many
// were removed. The newest window is always kept so rotation can continue.
func (t *Table) Prune(pos uint64) int {
	n := sort.Search(len(t.windows), func(i int) bool { return t.windows[i].End > pos })
	if n == len(t.windows) && n > 0 {
		n--
	}
	if n == 0 {
		return 0
	}
	t.windows = append(t.windows[:0:0], t.windows[n:]...)
	return n
}
