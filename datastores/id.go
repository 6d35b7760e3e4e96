package datastores

import (
	_ "encoding" // for documentation links to [encoding]
	"encoding/base32"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ContactID is a random (version 4) [uuid.UUID] text encoded as unpadded [base32].
type ContactID struct{ uuid uuid.UUID }

var (
	idEncoding   = base32.StdEncoding.WithPadding(base32.NoPadding) //nolint: gochecknoglobals,nolintlint
	idEncodedLen = idEncoding.EncodedLen(len(uuid.UUID{}))          //nolint: gochecknoglobals,nolintlint
)

var errInvalidID = errors.New("invalid contact id")

func newContactID() ContactID { return ContactID{uuid.Must(uuid.NewRandom())} }

// ParseContactID decodes the text form of a [ContactID].
func ParseContactID(s string) (ContactID, error) {
	var id ContactID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

// AppendText implements [encoding.TextAppender].
func (id ContactID) AppendText(b []byte) ([]byte, error) {
	return idEncoding.AppendEncode(b, id.uuid[:]), nil
}

// MarshalText implements [encoding.TextMarshaler].
func (id ContactID) MarshalText() ([]byte, error) {
	return id.AppendText(nil)
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Only version 4 UUIDs are accepted.
func (id *ContactID) UnmarshalText(b []byte) error {
	if len(b) != idEncodedLen {
		return fmt.Errorf("%w: expected %d characters, got %d", errInvalidID, idEncodedLen, len(b))
	}
	var u uuid.UUID
	if _, err := idEncoding.Decode(u[:], b); err != nil {
		return fmt.Errorf("%w: %w", errInvalidID, err)
	}
	if u.Version() != 4 || u.Variant() != uuid.RFC4122 { //nolint: mnd // UUID version
		return fmt.Errorf("%w: not a random UUID", errInvalidID)
	}
	id.uuid = u
	return nil
}

func (id ContactID) String() string {
	return idEncoding.EncodeToString(id.uuid[:])
}
