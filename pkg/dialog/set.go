package dialog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/dialogs/pkg/domain"
)

type entry struct {
	dialog Dialog
	caps   Capability
}

// Set manages the dialogs available to a bot, keyed by id.
// It is safe for concurrent use: turns of different conversations share one Set.
type Set struct {
	mu      sync.RWMutex
	dialogs map[string]entry
}

// NewSet creates a set holding the given dialogs.
// It panics on an invalid or duplicate id, which is a wiring bug.
func NewSet(dialogs ...Dialog) *Set {
	s := &Set{
		dialogs: make(map[string]entry),
	}
	for _, d := range dialogs {
		if err := s.Add(d); err != nil {
			panic(err)
		}
	}
	return s
}

// Add registers a dialog and resolves its capabilities.
func (s *Set) Add(d Dialog) error {
	id := d.ID()
	if id == "" {
		return domain.ErrInvalidDialogID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.dialogs[id]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateDialog, id)
	}
	s.dialogs[id] = entry{dialog: d, caps: Capabilities(d)}
	return nil
}

// Find returns the dialog registered under id.
func (s *Set) Find(id string) (Dialog, bool) {
	e, ok := s.lookup(id)
	return e.dialog, ok
}

// Capabilities returns the resolved capability flags for id.
func (s *Set) Capabilities(id string) (Capability, bool) {
	e, ok := s.lookup(id)
	return e.caps, ok
}

// IDs lists registered dialog ids in lexical order.
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.dialogs))
	for id := range s.dialogs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Set) lookup(id string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.dialogs[id]
	return e, ok
}
