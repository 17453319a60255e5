// Package inmem provides an in-memory implementation of the booking, item,
// party, and ledger repositories with the same atomicity guarantees as the
// Mongo implementations: one mutex serializes every guarded write, so a
// status precondition check and its mutation commit together. It backs unit
// tests and local development without a MongoDB instance.
package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/manoj0277/agrirent-backend/database/repository"
	ledgerRepo "github.com/manoj0277/agrirent-backend/database/repository/ledger"
	"github.com/manoj0277/agrirent-backend/models"
)

// Store holds all records behind a single mutex.
type Store struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	items    map[string]models.Item
	parties  map[string]models.Party
	invoices map[string]models.Invoice
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[string]models.Booking),
		items:    make(map[string]models.Item),
		parties:  make(map[string]models.Party),
		invoices: make(map[string]models.Invoice),
	}
}

// --- booking repository ---

func (s *Store) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	copy := b
	return &copy, nil
}

func (s *Store) Create(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.UpdatedAt = time.Now()
	s.bookings[b.ID] = *b
	return nil
}

func (s *Store) UpdateGuarded(ctx context.Context, updated *models.Booking, from []models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.replaceGuardedLocked(updated, from); err != nil {
		return err
	}
	return nil
}

func (s *Store) ListByStatus(ctx context.Context, statuses ...models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) ListDueOn(ctx context.Context, date string, statuses ...models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Date != date {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.InvoiceID] = *inv
	return nil
}

// Invoices returns the settled invoices, for tests.
func (s *Store) Invoices() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Invoice
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	return out
}

// --- item repository ---

func (s *Store) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, repository.ErrNotFound)
	}
	copy := it
	return &copy, nil
}

func (s *Store) CreateItem(ctx context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = *it
	return nil
}

func (s *Store) Consume(ctx context.Context, id string, units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumeLocked(id, units)
}

func (s *Store) Release(ctx context.Context, id string, units int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked(id, units)
}

// --- party repository ---

func (s *Store) GetPartyByID(ctx context.Context, id string) (*models.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parties[id]
	if !ok {
		return nil, fmt.Errorf("party %s: %w", id, repository.ErrNotFound)
	}
	copy := p
	return &copy, nil
}

func (s *Store) PutParty(p models.Party) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[p.ID] = p
}

// --- ledger ---

func (s *Store) CommitAcceptance(ctx context.Context, original *models.Booking, from []models.BookingStatus, sibling *models.Booking, consume *ledgerRepo.CapacityDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Capacity first: it is the cheaper check and leaves nothing to undo.
	if consume != nil {
		if err := s.consumeLocked(consume.ItemID, consume.Units); err != nil {
			return err
		}
	}
	if err := s.replaceGuardedLocked(original, from); err != nil {
		if consume != nil {
			_ = s.releaseLocked(consume.ItemID, consume.Units)
		}
		return err
	}
	if sibling != nil {
		s.bookings[sibling.ID] = *sibling
	}
	return nil
}

func (s *Store) CommitRelease(ctx context.Context, booking *models.Booking, from []models.BookingStatus, release *ledgerRepo.CapacityDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if release != nil {
		if _, ok := s.items[release.ItemID]; !ok {
			return fmt.Errorf("item %s: %w", release.ItemID, repository.ErrNotFound)
		}
	}
	if err := s.replaceGuardedLocked(booking, from); err != nil {
		return err
	}
	if release != nil {
		_ = s.releaseLocked(release.ItemID, release.Units)
	}
	return nil
}

// --- interface adapters ---

// ItemView adapts the store to the item repository interface; the booking and
// ledger method sets live on Store directly.
type ItemView struct {
	S *Store
}

func (v ItemView) GetByID(ctx context.Context, id string) (*models.Item, error) {
	return v.S.GetItemByID(ctx, id)
}

func (v ItemView) Create(ctx context.Context, it *models.Item) error {
	return v.S.CreateItem(ctx, it)
}

func (v ItemView) Consume(ctx context.Context, id string, units int) error {
	return v.S.Consume(ctx, id, units)
}

func (v ItemView) Release(ctx context.Context, id string, units int) error {
	return v.S.Release(ctx, id, units)
}

// PartyView adapts the store to the party repository interface.
type PartyView struct {
	S *Store
}

func (v PartyView) GetByID(ctx context.Context, id string) (*models.Party, error) {
	return v.S.GetPartyByID(ctx, id)
}

// --- locked helpers ---

func (s *Store) replaceGuardedLocked(updated *models.Booking, from []models.BookingStatus) error {
	current, ok := s.bookings[updated.ID]
	if !ok {
		return fmt.Errorf("booking %s: %w", updated.ID, repository.ErrNotFound)
	}
	inFrom := false
	for _, st := range from {
		if current.Status == st {
			inFrom = true
			break
		}
	}
	if !inFrom {
		return fmt.Errorf("booking %s is %q: %w", updated.ID, current.Status, repository.ErrInvalidState)
	}
	if current.Version != updated.Version {
		return fmt.Errorf("booking %s: %w", updated.ID, repository.ErrStaleWrite)
	}
	updated.Version++
	updated.UpdatedAt = time.Now()
	s.bookings[updated.ID] = *updated
	return nil
}

func (s *Store) consumeLocked(id string, units int) error {
	it, ok := s.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, repository.ErrNotFound)
	}
	if units > 0 {
		if it.QuantityAvailable < units {
			return fmt.Errorf("item %s: %w", id, repository.ErrInsufficientCapacity)
		}
		it.QuantityAvailable -= units
		it.Available = it.QuantityAvailable > 0
	} else {
		if !it.Available {
			return fmt.Errorf("item %s: %w", id, repository.ErrInsufficientCapacity)
		}
		it.Available = false
	}
	it.Version++
	s.items[id] = it
	return nil
}

func (s *Store) releaseLocked(id string, units int) error {
	it, ok := s.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, repository.ErrNotFound)
	}
	if units > 0 {
		it.QuantityAvailable += units
		it.Available = it.QuantityAvailable > 0
	} else {
		it.Available = true
	}
	it.Version++
	s.items[id] = it
	return nil
}
