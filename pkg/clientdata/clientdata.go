// Package clientdata validates the collected client data a browser signs over
// during WebAuthn ceremonies.
package clientdata

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"
	"github.com/samber/lo"
)

var (
	ErrParse             = errors.New("clientdata: malformed client data JSON")
	ErrTypeMismatch      = errors.New("clientdata: ceremony type mismatch")
	ErrChallengeMismatch = errors.New("clientdata: challenge mismatch")
	ErrOriginMismatch    = errors.New("clientdata: origin not allowed")
)

// Verify parses rawJSON and checks it against the expected ceremony, the
// expected challenge bytes and the allowed origins. The challenge comparison
// runs in constant time over the decoded bytes, so a value differing in a
// single byte fails, as does any prefix or superstring of the expected value.
func Verify(
	rawJSON []byte,
	ceremony webauthntypes.CeremonyType,
	expectedChallenge []byte,
	allowedOrigins []string,
) (*webauthntypes.CollectedClientData, error) {
	var clientData webauthntypes.CollectedClientData
	if err := json.Unmarshal(rawJSON, &clientData); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if clientData.Type != ceremony {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, clientData.Type, ceremony)
	}

	gotChallenge, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(clientData.Challenge, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: challenge is not base64url: %w", ErrParse, err)
	}
	if subtle.ConstantTimeCompare(gotChallenge, expectedChallenge) != 1 {
		return nil, ErrChallengeMismatch
	}

	if !lo.Contains(allowedOrigins, clientData.Origin) {
		return nil, fmt.Errorf("%w: %q", ErrOriginMismatch, clientData.Origin)
	}

	return &clientData, nil
}
