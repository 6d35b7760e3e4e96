package handlers

import (
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/huma-contacts-patch/datastores"
)

// ContactInput is the client-writable representation of a contact, accepted by
// POST and PUT and used as the target of both PATCH kinds.
type ContactInput struct {
	Name     string       `json:"name"               example:"John Appleseed" validate:"notblank"`
	Birthday *Date        `json:"birthday,omitempty"`
	Work     *WorkModel   `json:"work,omitempty"`
	Phones   []PhoneModel `json:"phones,omitempty"                            validate:"dive"`
	Emails   []EmailModel `json:"emails,omitempty"                            validate:"dive"`
	Groups   []string     `json:"groups,omitempty"`
	Favorite *bool        `json:"favorite,omitempty"`
	Notes    string       `json:"notes,omitempty"    example:"Cool guy!"`
}

// ContactOutput is the representation of a stored contact.
type ContactOutput struct {
	ID ds.ContactID `json:"id" readOnly:"true"`
	ContactInput
	CreatedDateTime      time.Time `json:"createdDateTime"      readOnly:"true"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime" readOnly:"true"`
}

type WorkModel struct {
	Title   string `json:"title,omitempty"   example:"Engineer"`
	Company string `json:"company,omitempty" example:"Acme"`
}

type PhoneModel struct {
	Phone string `json:"phone,omitempty" example:"0000000000"`
	Type  string `json:"type,omitempty"  example:"work"`
}

type EmailModel struct {
	Email string `json:"email,omitempty" example:"john@example.com" validate:"omitempty,email"`
	Type  string `json:"type,omitempty"  example:"home"`
}

// Date is a calendar date, encoded as [time.DateOnly] text.
type Date time.Time

func NewDate(year int, month time.Month, day int) *Date {
	d := Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	return &d
}

func (d Date) Time() time.Time { return time.Time(d) }

// MarshalText implements [encoding.TextMarshaler].
func (d Date) MarshalText() ([]byte, error) {
	return time.Time(d).AppendFormat(nil, time.DateOnly), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", b)
	}
	*d = Date(t)
	return nil
}

// Schema implements [huma.SchemaProvider].
func (Date) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{Type: huma.TypeString, Format: "date", Examples: []any{"1990-01-01"}}
}

func asContact(in *ContactInput) *ds.Contact {
	c := new(ds.Contact)
	update(c, in)
	return c
}

// update overwrites every client-writable field of c with in.
func update(c *ds.Contact, in *ContactInput) {
	c.Name = in.Name
	c.Birthday = time.Time{}
	if in.Birthday != nil {
		c.Birthday = in.Birthday.Time()
	}
	c.Work = nil
	if in.Work != nil {
		c.Work = &ds.Work{Title: in.Work.Title, Company: in.Work.Company}
	}
	c.Phones = nil
	for _, p := range in.Phones {
		c.Phones = append(c.Phones, ds.Phone{Phone: p.Phone, Type: p.Type})
	}
	c.Emails = nil
	for _, e := range in.Emails {
		c.Emails = append(c.Emails, ds.Email{Email: e.Email, Type: e.Type})
	}
	c.Groups = append([]string(nil), in.Groups...)
	c.Favorite = in.Favorite != nil && *in.Favorite
	c.Notes = in.Notes
}

func asInput(c *ds.Contact) *ContactInput {
	favorite := c.Favorite
	in := &ContactInput{
		Name:     c.Name,
		Groups:   append([]string(nil), c.Groups...),
		Favorite: &favorite,
		Notes:    c.Notes,
	}
	if !c.Birthday.IsZero() {
		d := Date(c.Birthday)
		in.Birthday = &d
	}
	if c.Work != nil {
		in.Work = &WorkModel{Title: c.Work.Title, Company: c.Work.Company}
	}
	for _, p := range c.Phones {
		in.Phones = append(in.Phones, PhoneModel{Phone: p.Phone, Type: p.Type})
	}
	for _, e := range c.Emails {
		in.Emails = append(in.Emails, EmailModel{Email: e.Email, Type: e.Type})
	}
	return in
}

func asOutput(c *ds.Contact) ContactOutput {
	return ContactOutput{
		ID:                   c.ID,
		ContactInput:         *asInput(c),
		CreatedDateTime:      c.CreatedDateTime.UTC(),
		LastModifiedDateTime: c.LastModifiedDateTime.UTC(),
	}
}
