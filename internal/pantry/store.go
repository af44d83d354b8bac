package pantry

import (
	"context"
	"strings"
	"time"

	"fridge-planner/internal/api"
	"fridge-planner/internal/expiry"
)

// client is the slice of the remote API the store needs.
type client interface {
	FetchPantry(ctx context.Context) ([]api.PantryItem, error)
	CreateItem(ctx context.Context, in api.NewPantryItem) (*api.PantryItem, error)
	UpdateItem(ctx context.Context, id int64, fields map[string]any) (*api.PantryItem, error)
	DeleteItem(ctx context.Context, id int64) error
}

// Store owns the authoritative pantry collection for a session. It is the
// only component that calls the pantry mutation endpoints, and every mutation
// is followed by a full reload so local state can never drift from
// server-side normalization. Not safe for concurrent use; the caller
// serializes operations.
type Store struct {
	remote client
	now    func() time.Time

	items   []Item
	stats   Stats
	loadSeq uint64
}

// NewStore creates a pantry store backed by the given remote client.
func NewStore(remote client) *Store {
	return &Store{remote: remote, now: time.Now}
}

// Items returns a copy of the authoritative collection.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Stats returns the totals computed during the last load.
func (s *Store) Stats() Stats {
	return s.stats
}

// Load fetches the full collection from the backend, replaces local state
// wholesale, and recomputes statistics. Each call supersedes any load still
// in flight: a response belonging to an older load is discarded.
func (s *Store) Load(ctx context.Context) error {
	s.loadSeq++
	seq := s.loadSeq

	wire, err := s.remote.FetchPantry(ctx)
	if err != nil {
		return err
	}
	if seq != s.loadSeq {
		// A newer load has been issued since this one started.
		return nil
	}

	items := make([]Item, 0, len(wire))
	for _, w := range wire {
		items = append(items, itemFromWire(w))
	}
	s.items = items
	s.stats = ComputeStats(items, s.now())
	return nil
}

// Add validates the input locally, creates the item on the backend, and
// reloads the collection. On any failure local state is left untouched.
func (s *Store) Add(ctx context.Context, in NewItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return &api.Error{Kind: api.KindValidation, Message: "ingredient name is required"}
	}
	if in.Quantity < 1 {
		return &api.Error{Kind: api.KindValidation, Message: "quantity must be at least 1"}
	}

	if _, err := s.remote.CreateItem(ctx, wireNewItem(in)); err != nil {
		return err
	}
	return s.Load(ctx)
}

// Update applies a partial patch to an item. A patch that is empty or equal
// to the item's current values performs no network call and returns false.
// Patching the quantity to zero removes the item instead: a pantry item is
// never persisted at quantity zero.
func (s *Store) Update(ctx context.Context, id int64, p Patch) (bool, error) {
	current, ok := s.find(id)
	if !ok {
		return false, &api.Error{Kind: api.KindNotFound, Message: "item not in pantry"}
	}

	if p.Quantity != nil && *p.Quantity < 1 {
		return true, s.Remove(ctx, id)
	}

	fields := map[string]any{}
	if p.Quantity != nil && *p.Quantity != current.Quantity {
		fields["quantity"] = *p.Quantity
	}
	if p.SetExpiry && !expiry.SameDay(p.ExpiresOn, current.ExpiresOn) {
		if p.ExpiresOn == nil {
			fields["expiresOn"] = nil
		} else {
			fields["expiresOn"] = expiry.FormatDate(*p.ExpiresOn)
		}
	}
	if len(fields) == 0 {
		return false, nil
	}

	if _, err := s.remote.UpdateItem(ctx, id, fields); err != nil {
		return false, err
	}
	return true, s.Load(ctx)
}

// Remove deletes an item and reloads. Removing an id the server no longer
// has is not an error; the client maps a 404 on delete to success, so a
// second Remove of the same id behaves the same as the first.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if err := s.remote.DeleteItem(ctx, id); err != nil {
		return err
	}
	return s.Load(ctx)
}

func (s *Store) find(id int64) (Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
