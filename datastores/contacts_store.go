package datastores

import (
	"context"
	"errors"
	"slices"
	"time"
)

type (
	Contact struct {
		ID                   ContactID
		Name                 string
		Birthday             time.Time // zero when unknown
		Work                 *Work
		Phones               []Phone
		Emails               []Email
		Groups               []string
		Favorite             bool
		Notes                string
		CreatedDateTime      time.Time
		LastModifiedDateTime time.Time
	}
	Work struct {
		Title   string
		Company string
	}
	Phone struct {
		Phone string
		Type  string
	}
	Email struct {
		Email string
		Type  string
	}
)

// Clone returns a deep copy of c.
func (c *Contact) Clone() *Contact {
	clone := *c
	if c.Work != nil {
		work := *c.Work
		clone.Work = &work
	}
	clone.Phones = slices.Clone(c.Phones)
	clone.Emails = slices.Clone(c.Emails)
	clone.Groups = slices.Clone(c.Groups)
	return &clone
}

type ContactsStore interface {
	Create(context.Context, *Contact) (ContactID, error)
	List(context.Context) ([]*Contact, error)
	Get(context.Context, ContactID) (*Contact, error)
	Update(context.Context, *Contact) error
	Delete(context.Context, ContactID) error
}

var ErrObjectNotFound = errors.New("store: object not found")
