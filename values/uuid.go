package values

import (
	"github.com/google/uuid"

	"github.com/reoring/lasso"
)

// UUID is a capability shape for RFC 4122 identifiers. Its zero value can be
// used directly in a shape definition.
type UUID struct {
	uuid.UUID
}

var (
	NamespaceDNS  = UUID{uuid.NameSpaceDNS}
	NamespaceURL  = UUID{uuid.NameSpaceURL}
	NamespaceOID  = UUID{uuid.NameSpaceOID}
	NamespaceX500 = UUID{uuid.NameSpaceX500}
)

// ParseUUID parses any textual form accepted by uuid.Parse: canonical, upper
// case, 32 hex digits, urn:uuid: prefixed or braced.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// NewV1 returns a time-based UUID.
func NewV1() (UUID, error) {
	u, err := uuid.NewUUID()
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// NewV3 returns the MD5 name-based UUID of name within ns.
func NewV3(ns UUID, name string) UUID { return UUID{uuid.NewMD5(ns.UUID, []byte(name))} }

// NewV4 returns a random UUID.
func NewV4() (UUID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// NewV5 returns the SHA-1 name-based UUID of name within ns.
func NewV5(ns UUID, name string) UUID { return UUID{uuid.NewSHA1(ns.UUID, []byte(name))} }

// Validate accepts a UUID, a uuid.UUID or a string.
func (UUID) Validate(data any) (any, error) {
	switch v := data.(type) {
	case UUID:
		return v, nil
	case uuid.UUID:
		return UUID{v}, nil
	case string:
		u, err := ParseUUID(v)
		if err != nil {
			return nil, &lasso.Failure{Message: "invalid UUID " + quote(v), Cause: err}
		}
		return u, nil
	}
	return nil, lasso.Failf("%v should be a UUID", data)
}

// ToPrimitive returns the canonical lower-case form.
func (u UUID) ToPrimitive() any { return u.String() }
