// Package models defines the client-side entities (campaigns, donations,
// users, NGO applications, contact messages) and parses them from backend
// payloads.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

type IdentityKind uint8

const (
	IdentityNone IdentityKind = iota
	IdentityLocal
	IdentityDurable
)

const localPrefix = "local:"

// Identity names an entity either by a client-assigned local sequence
// number or by the backend-assigned durable ID.
type Identity struct {
	Kind    IdentityKind
	Local   int64
	Durable string
}

func LocalID(n int64) Identity {
	return Identity{Kind: IdentityLocal, Local: n}
}

func DurableID(s string) Identity {
	return Identity{Kind: IdentityDurable, Durable: s}
}

// IdentityOf returns the durable ID when set, else the local ID, else the
// zero Identity.
func IdentityOf(durable string, local int64) Identity {
	switch {
	case durable != "":
		return DurableID(durable)
	case local != 0:
		return LocalID(local)
	default:
		return Identity{}
	}
}

func (i Identity) IsZero() bool {
	return i.Kind == IdentityNone
}

func (i Identity) Equal(o Identity) bool {
	if i.Kind != o.Kind {
		return false
	}
	switch i.Kind {
	case IdentityLocal:
		return i.Local == o.Local
	case IdentityDurable:
		return i.Durable == o.Durable
	default:
		return true
	}
}

func (i Identity) String() string {
	switch i.Kind {
	case IdentityLocal:
		return localPrefix + strconv.FormatInt(i.Local, 10)
	case IdentityDurable:
		return i.Durable
	default:
		return ""
	}
}

// ParseIdentity reverses String. Bare integers are read as local IDs so
// that users can type "3" instead of "local:3".
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identity{}, nil
	}

	num := strings.TrimPrefix(s, localPrefix)
	if n, err := strconv.ParseInt(num, 10, 64); err == nil {
		if n <= 0 {
			return Identity{}, fmt.Errorf("local id must be positive: %q", s)
		}
		return LocalID(n), nil
	}
	if num != s {
		return Identity{}, fmt.Errorf("bad local id: %q", s)
	}
	return DurableID(s), nil
}

func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Identity) UnmarshalText(b []byte) error {
	id, err := ParseIdentity(string(b))
	if err != nil {
		return err
	}
	*i = id
	return nil
}
