// Package authdata decodes the binary authenticator data structure and the
// CBOR attestation object envelope carried in WebAuthn responses. All input
// is untrusted; every read is bounds-checked and decoding never panics.
package authdata

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"
	"github.com/google/uuid"
	"github.com/ldclabs/cose/key"
	"golang.org/x/crypto/cryptobyte"
)

var (
	ErrTooShort             = errors.New("authdata: buffer too short")
	ErrTrailingBytes        = errors.New("authdata: trailing bytes after authenticator data")
	ErrCredentialIDTooLong  = errors.New("authdata: credential ID exceeds 1023 bytes")
	ErrNoAttestedCredential = errors.New("authdata: attested credential data not included")
)

type AuthDataFlag byte

const (
	AuthDataFlagUserPresent AuthDataFlag = 1 << iota
	_
	AuthDataFlagUserVerified
	AuthDataFlagBackupEligibility
	AuthDataFlagBackupState
	_
	AuthDataFlagAttestedCredentialDataIncluded
	AuthDataFlagExtensionDataIncluded
)

func (f AuthDataFlag) UserPresent() bool {
	return f&AuthDataFlagUserPresent != 0
}
func (f AuthDataFlag) UserVerified() bool {
	return f&AuthDataFlagUserVerified != 0
}
func (f AuthDataFlag) BackupEligible() bool {
	return f&AuthDataFlagBackupEligibility != 0
}
func (f AuthDataFlag) BackedUp() bool {
	return f&AuthDataFlagBackupState != 0
}
func (f AuthDataFlag) AttestedCredentialDataIncluded() bool {
	return f&AuthDataFlagAttestedCredentialDataIncluded != 0
}
func (f AuthDataFlag) ExtensionDataIncluded() bool {
	return f&AuthDataFlagExtensionDataIncluded != 0
}

// AttestedCredentialData carries the new credential an authenticator attests
// to during registration.
type AttestedCredentialData struct {
	AAGUID              uuid.UUID
	CredentialID        []byte
	CredentialPublicKey key.Key
}

// AuthenticatorData is the decoded authenticator data structure: a 32-byte
// RP ID hash, one flag byte and a big-endian uint32 signature counter,
// optionally followed by attested credential data and extension CBOR.
// https://www.w3.org/TR/webauthn-3/#sctn-authenticator-data
type AuthenticatorData struct {
	RPIDHash               []byte
	Flags                  AuthDataFlag
	SignCount              uint32
	AttestedCredentialData *AttestedCredentialData
	Extensions             []byte
}

// Parse decodes data. The attested credential data segment is read only when
// the AT flag is set; the remainder is kept as raw extension CBOR only when
// the ED flag is set, and anything else left over is rejected.
func Parse(decMode cbor.DecMode, data []byte) (*AuthenticatorData, error) {
	s := cryptobyte.String(data)

	d := &AuthenticatorData{}
	var flags uint8
	if !s.ReadBytes(&d.RPIDHash, 32) ||
		!s.ReadUint8(&flags) ||
		!s.ReadUint32(&d.SignCount) {
		return nil, fmt.Errorf("%w: header is 37 bytes", ErrTooShort)
	}
	d.Flags = AuthDataFlag(flags)

	if d.Flags.AttestedCredentialDataIncluded() {
		var aaguid []byte
		var credentialID cryptobyte.String
		if !s.ReadBytes(&aaguid, 16) ||
			!s.ReadUint16LengthPrefixed(&credentialID) {
			return nil, fmt.Errorf("%w: truncated attested credential data", ErrTooShort)
		}
		if len(credentialID) > 1023 {
			return nil, ErrCredentialIDTooLong
		}

		credData := &AttestedCredentialData{
			AAGUID:       uuid.UUID(aaguid),
			CredentialID: credentialID,
		}

		// The credential public key is a single CBOR item with no length
		// prefix of its own.
		dec := decMode.NewDecoder(bytes.NewReader(s))
		if err := dec.Decode(&credData.CredentialPublicKey); err != nil {
			return nil, fmt.Errorf("cannot decode credential public key: %w", err)
		}
		s.Skip(dec.NumBytesRead())

		d.AttestedCredentialData = credData
	}

	if d.Flags.ExtensionDataIncluded() {
		if s.Empty() {
			return nil, fmt.Errorf("%w: extension data flag set without payload", ErrTooShort)
		}
		d.Extensions = s
	} else if !s.Empty() {
		return nil, ErrTrailingBytes
	}

	return d, nil
}

// DecodeExtensions decodes the raw extension CBOR into a map keyed by
// extension identifier. It returns nil when the ED flag was not set.
func (d *AuthenticatorData) DecodeExtensions(decMode cbor.DecMode) (map[webauthntypes.ExtensionIdentifier]cbor.RawMessage, error) {
	if d.Extensions == nil {
		return nil, nil
	}

	var extensions map[webauthntypes.ExtensionIdentifier]cbor.RawMessage
	if err := decMode.Unmarshal(d.Extensions, &extensions); err != nil {
		return nil, fmt.Errorf("cannot decode extension data: %w", err)
	}

	return extensions, nil
}
