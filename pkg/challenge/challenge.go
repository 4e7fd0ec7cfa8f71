// Package challenge issues the single-use random values that bind WebAuthn
// ceremonies to a caller-held session.
package challenge

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
)

var ErrInvalidSize = errors.New("challenge: size must be positive")

// Params carries the relying-party identity and policy stamped onto a new
// challenge.
type Params struct {
	RPID    string
	RPName  string
	RPIcon  string
	Timeout time.Duration
	UserID  mo.Option[string]
}

// Challenge is one issued challenge together with the metadata a client needs
// to run a ceremony. The library never stores challenges; the caller's
// session store is authoritative and enforces single use.
type Challenge struct {
	Value     []byte
	RPID      string
	RPName    string
	RPIcon    string
	Timeout   time.Duration
	UserID    mo.Option[string]
	CreatedAt time.Time
	ExpiresAt time.Time
}

// New draws size bytes from crypto/rand. An entropy failure is returned
// wrapped and is not retried.
func New(size int, params Params) (*Challenge, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	value := make([]byte, size)
	if _, err := rand.Read(value); err != nil {
		return nil, fmt.Errorf("cannot read entropy: %w", err)
	}

	now := time.Now()

	return &Challenge{
		Value:     value,
		RPID:      params.RPID,
		RPName:    params.RPName,
		RPIcon:    params.RPIcon,
		Timeout:   params.Timeout,
		UserID:    params.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(params.Timeout),
	}, nil
}

// String returns the unpadded base64url form, the encoding clients echo back
// inside collected client data.
func (c *Challenge) String() string {
	return base64.RawURLEncoding.EncodeToString(c.Value)
}

// Equal reports whether value matches the challenge bytes, in constant time.
func (c *Challenge) Equal(value []byte) bool {
	return subtle.ConstantTimeCompare(c.Value, value) == 1
}

// Expired reports whether the challenge lifetime had passed at now. Expiry is
// the caller's check; verification itself never reads the clock.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// MarshalJSON emits the transport bundle handed to the client.
func (c *Challenge) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Challenge string `json:"challenge"`
		RPID      string `json:"rpId"`
		RPName    string `json:"rpName"`
		RPIcon    string `json:"rpIcon,omitempty"`
		Timeout   int64  `json:"timeout"` // milliseconds
		UserID    string `json:"userId,omitempty"`
	}{
		Challenge: c.String(),
		RPID:      c.RPID,
		RPName:    c.RPName,
		RPIcon:    c.RPIcon,
		Timeout:   c.Timeout.Milliseconds(),
		UserID:    c.UserID.OrElse(""),
	})
}
