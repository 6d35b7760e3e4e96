package datastores

import (
	"context"
	"slices"
	"sync"
	"time"
)

// ContactsInmem implements [ContactsStore]. Contacts go in and out as copies,
// callers never share memory with the stored values.
type ContactsInmem struct {
	Clock func() time.Time // defaults to [time.Now]

	mu       sync.Mutex
	index    map[ContactID]int
	contacts []*Contact
}

var _ ContactsStore = (*ContactsInmem)(nil)

// NewContactsInmem returns a store seeded with cs, each given a fresh ID.
func NewContactsInmem(cs ...*Contact) *ContactsInmem {
	s := &ContactsInmem{index: make(map[ContactID]int, len(cs))}
	for _, c := range cs {
		s.create(c)
	}
	return s
}

func (s *ContactsInmem) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *ContactsInmem) Create(_ context.Context, c *Contact) (ContactID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(c), nil
}

func (s *ContactsInmem) create(c *Contact) ContactID {
	if s.index == nil {
		s.index = make(map[ContactID]int)
	}
retry:
	c.ID = newContactID()
	_, loaded := s.index[c.ID]
	if loaded {
		goto retry
	}
	now := s.now()
	c.CreatedDateTime, c.LastModifiedDateTime = now, now
	s.index[c.ID] = len(s.contacts)
	s.contacts = append(s.contacts, c.Clone())
	return c.ID
}

func (s *ContactsInmem) List(_ context.Context) ([]*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts := make([]*Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		contacts = append(contacts, c.Clone())
	}
	return contacts, nil
}

func (s *ContactsInmem) Get(_ context.Context, id ContactID) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return s.contacts[index].Clone(), nil
}

// Update replaces the stored contact with the same ID as c and refreshes its
// modification time. The creation time is kept from the stored contact.
func (s *ContactsInmem) Update(_ context.Context, c *Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[c.ID]
	if !ok {
		return ErrObjectNotFound
	}
	c.CreatedDateTime = s.contacts[index].CreatedDateTime
	c.LastModifiedDateTime = s.now()
	s.contacts[index] = c.Clone()
	return nil
}

func (s *ContactsInmem) Delete(_ context.Context, id ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.index[id]
	if !ok {
		return ErrObjectNotFound
	}
	delete(s.index, id)
	s.contacts = slices.Delete(s.contacts, index, index+1)
	for i := index; i < len(s.contacts); i++ {
		s.index[s.contacts[i].ID] = i
	}
	return nil
}
