package cart

import (
	"context"
	"sync"

	"bloomkart/internal/model"
)

// Store abstracts where carts live. Guest carts are held in process memory;
// signed-in carts are persisted, with the stored copy authoritative. The
// cart service picks a store per request, so the mutation code is written
// once against this interface.
type Store interface {
	// Get returns the cart for an owner key, or nil when none exists.
	Get(ctx context.Context, ownerKey string) (*model.Cart, error)

	// Save persists the cart under its owner key.
	Save(ctx context.Context, c *model.Cart) error

	// Delete removes the cart for an owner key. Deleting an absent cart
	// is a no-op.
	Delete(ctx context.Context, ownerKey string) error
}

// MemoryStore is an in-process Store for guest-session carts.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*model.Cart
}

// NewMemoryStore creates an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*model.Cart),
	}
}

// Get returns a copy of the stored cart, or nil when none exists.
func (s *MemoryStore) Get(ctx context.Context, ownerKey string) (*model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[ownerKey]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

// Save stores a copy of the cart under its owner key.
func (s *MemoryStore) Save(ctx context.Context, c *model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[c.OwnerKey] = cloneCart(c)
	return nil
}

// Delete removes the cart for an owner key.
func (s *MemoryStore) Delete(ctx context.Context, ownerKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, ownerKey)
	return nil
}

// cloneCart deep-copies a cart so callers never share slices with the
// stored copy.
func cloneCart(c *model.Cart) *model.Cart {
	copied := *c
	copied.Items = append([]model.CartItem(nil), c.Items...)
	copied.AppliedCoupons = append([]model.AppliedCoupon(nil), c.AppliedCoupons...)
	return &copied
}
