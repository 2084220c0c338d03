package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/shopspring/decimal"
)

// Slot is the persistent key-value surface the cart mirrors itself into.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartSlotKey(cartToken string) string
}

// Store holds the authoritative line list for one cart token and keeps it
// synchronized with its persistent slot. Every mutation rewrites the full
// serialized list under the same key; concurrent holders of one token
// overwrite each other, last write wins.
type Store struct {
	slot  Slot
	token string
	ttl   time.Duration
	lines []Line
}

// Open loads the cart for the given token. A missing slot, corrupt payload,
// or read failure yields an empty cart, never an error.
func Open(ctx context.Context, slot Slot, token string, ttl time.Duration) *Store {
	s := &Store{slot: slot, token: token, ttl: ttl}
	if slot == nil || token == "" {
		return s
	}
	raw, err := slot.Get(ctx, slot.CartSlotKey(token))
	if err != nil || raw == "" {
		return s
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return s
	}
	s.lines = lines
	return s
}

// AddItem merges qty into an existing (product, variant) line or appends a
// new one. On merge the existing line's snapshot fields win over the incoming
// item's. Callers are expected to pass positive quantities.
func (s *Store) AddItem(ctx context.Context, item Line, qty int64) error {
	key := item.Key()
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity += qty
			return s.persist(ctx)
		}
	}
	item.Quantity = qty
	s.lines = append(s.lines, item)
	return s.persist(ctx)
}

// RemoveItem deletes the line matching the normalized key; no-op if absent.
func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) error {
	key := LineKey(productID, variantID)
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// SetQty overwrites the matching line's quantity, removing the line when the
// quantity drops to zero or below. No-op if no matching line exists.
func (s *Store) SetQty(ctx context.Context, productID, variantID string, qty int64) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, productID, variantID)
	}
	key := LineKey(productID, variantID)
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity = qty
			return s.persist(ctx)
		}
	}
	return nil
}

// Clear empties the line list.
func (s *Store) Clear(ctx context.Context) error {
	s.lines = nil
	if s.slot == nil || s.token == "" {
		return nil
	}
	if err := s.slot.Del(ctx, s.slot.CartSlotKey(s.token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart slot")
	}
	return nil
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Count is the total quantity across all lines.
func (s *Store) Count() int64 {
	var total int64
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalCents is the snapshot price total across all lines.
func (s *Store) TotalCents() int64 {
	var total int64
	for _, line := range s.lines {
		total += line.PriceCents * line.Quantity
	}
	return total
}

// Total returns the cart total as a display amount in major units.
func (s *Store) Total() decimal.Decimal {
	return decimal.NewFromInt(s.TotalCents()).Shift(-2)
}

func (s *Store) persist(ctx context.Context) error {
	if s.slot == nil || s.token == "" {
		return nil
	}
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	key := s.slot.CartSlotKey(s.token)
	if err := s.slot.Set(ctx, key, string(encoded), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("persist cart %s", key))
	}
	return nil
}
