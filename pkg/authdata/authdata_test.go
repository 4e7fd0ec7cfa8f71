package authdata

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/go-ctap/webauthnrp/pkg/cosekey"
	"github.com/go-ctap/webauthnrp/pkg/options"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"

	"github.com/google/uuid"
	"github.com/ldclabs/cose/iana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Captures adapted from apowers313's fido2-helpers (2019) at
// https://github.com/apowers313/fido2-helpers/blob/master/fido2-helpers.js
const (
	es256AttestationObjectDump = "o2NmbXRkbW9ja2dhdHRTdG10oGhhdXRoRGF0YVkBJkmWDeWIDoxodDQXD2R2YFuP5K65ooYyx5lc87qDHZdjQQAAAAAAAAAAAAAAAAAAAAAAAAAAAKIACKLdXqwahqjNbtNs1piUlonluvxOsF9Feeh9k7qXay5zdrm239cW4WQUD_l5ptTzRLU9bSbghnv0FLaRA7tly7La9_QRKDXwZMsbWajlhKQh2ovYnjh6C37qtyPs151ITDFr-67FRgG0c2dJCoOa2hQB8z0tJYuXrkGMpVk0ZSn1qjfeYxJ1V9BDRsfN7r0lVC8sF_w5OJlSomw64qampRylAQIDJiABIVgguxHN3W6ehp0VWXKaMNie1J82MVJCFZYScau74o17cx8iWCDb1jkTLi7lYZZbgwUwpqAk8QmIiPMTVQUVkhGEyGrKww=="
	rs256AttestationObjectDump = "o2NmbXRkbW9ja2dhdHRTdG10oGhhdXRoRGF0YVkBZ0mWDeWIDoxodDQXD2R2YFuP5K65ooYyx5lc87qDHZdjQQAAADio1ZkkY7dJ6rneNKdT3h4BACAfpfYGeeOA7O786Pzu-lGfAwl4lhXPAzfC1jWWEB9DXqQBAwM5__4gWQEAwCKs8mzz5oHi-TkeiSqvW1g4hDSZTfy3j0BJ39f7IDpuBSfZAU2zk7VqZX6DF4ONAO5njKaYkaj-9gN7ZiC8GecSiMmO1fGNrfF9YpWCaJdpwijqQBKhi00SYxeuBkMXp9LhaYtbQOpejfmW6D8Y5MuGonQXVD9tmGbhDwjvPvWU4WvKsL04GcDB4WeNE1DxCRhljpxzZWJqp3xX5ND_lDmaJCNK6raqkBjMM1dkax9pIyk2Rn8rJAEJ66n_T6CZMnuClI1pFp2c4ZGW6w6C8kxF9qFr0035Z0ebQFTEHIeFBoBB0mdNBuUhaHNfZxsf1CXKns8eXC2bJ8vqkGA0YyFDAQAB"
	assertionAuthDataDump      = "SZYN5YgOjGh0NBcPZHZgW4_krrmihjLHmVzzuoMdl2MBAAABaw"
)

var testDecMode = options.NewOptions().DecMode

func TestParseAttestationObject(t *testing.T) {
	raw, err := base64.URLEncoding.DecodeString(es256AttestationObjectDump)
	require.NoError(t, err)

	attObj, err := ParseAttestationObject(testDecMode, raw)
	require.NoError(t, err)

	assert.Equal(t, webauthntypes.AttestationStatementFormatIdentifier("mock"), attObj.Format)
	assert.Empty(t, attObj.AttestationStatement)

	authData := attObj.AuthData
	require.NotNil(t, authData)

	rpIDHash := sha256.Sum256([]byte("localhost"))
	assert.Equal(t, rpIDHash[:], authData.RPIDHash)
	assert.True(t, authData.Flags.UserPresent())
	assert.False(t, authData.Flags.UserVerified())
	assert.True(t, authData.Flags.AttestedCredentialDataIncluded())
	assert.False(t, authData.Flags.ExtensionDataIncluded())
	assert.Equal(t, uint32(0), authData.SignCount)

	credData := authData.AttestedCredentialData
	require.NotNil(t, credData)
	assert.Equal(t, uuid.Nil, credData.AAGUID)
	assert.Len(t, credData.CredentialID, 162)
	assert.Equal(t, iana.AlgorithmES256, int(credData.CredentialPublicKey.Alg()))

	pub, err := cosekey.PublicKey(credData.CredentialPublicKey)
	require.NoError(t, err)
	ecPub, ok := pub.(*ecdsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, []byte{
		0xbb, 0x11, 0xcd, 0xdd, 0x6e, 0x9e, 0x86, 0x9d, 0x15, 0x59, 0x72, 0x9a, 0x30, 0xd8, 0x9e, 0xd4,
		0x9f, 0x36, 0x31, 0x52, 0x42, 0x15, 0x96, 0x12, 0x71, 0xab, 0xbb, 0xe2, 0x8d, 0x7b, 0x73, 0x1f,
	}, ecPub.X.Bytes())
	assert.Equal(t, []byte{
		0xdb, 0xd6, 0x39, 0x13, 0x2e, 0x2e, 0xe5, 0x61, 0x96, 0x5b, 0x83, 0x05, 0x30, 0xa6, 0xa0, 0x24,
		0xf1, 0x09, 0x88, 0x88, 0xf3, 0x13, 0x55, 0x05, 0x15, 0x92, 0x11, 0x84, 0xc8, 0x6a, 0xca, 0xc3,
	}, ecPub.Y.Bytes())
}

func TestParseAttestationObjectRSACredential(t *testing.T) {
	raw, err := base64.URLEncoding.DecodeString(rs256AttestationObjectDump)
	require.NoError(t, err)

	attObj, err := ParseAttestationObject(testDecMode, raw)
	require.NoError(t, err)

	authData := attObj.AuthData
	require.NotNil(t, authData)
	assert.Equal(t, uint32(56), authData.SignCount)

	credData := authData.AttestedCredentialData
	require.NotNil(t, credData)
	assert.Equal(t, uuid.MustParse("a8d59924-63b7-49ea-b9de-34a753de1e01"), credData.AAGUID)
	assert.Len(t, credData.CredentialID, 32)

	pub, err := cosekey.PublicKey(credData.CredentialPublicKey)
	require.NoError(t, err)
	rsaPub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, 65537, rsaPub.E)
	assert.Equal(t, 2048, rsaPub.N.BitLen())
}

func TestParseAttestationObjectNotCBOR(t *testing.T) {
	_, err := ParseAttestationObject(testDecMode, []byte("hello"))
	assert.Error(t, err)
}

func TestParseAttestationObjectMissingFormat(t *testing.T) {
	// {"attStmt": {}, "authData": h''}
	raw := []byte{
		0xa2,
		0x67, 'a', 't', 't', 'S', 't', 'm', 't', 0xa0,
		0x68, 'a', 'u', 't', 'h', 'D', 'a', 't', 'a', 0x40,
	}

	_, err := ParseAttestationObject(testDecMode, raw)
	assert.ErrorIs(t, err, ErrNoFormat)
}

func TestParseAttestationObjectEmptyAuthData(t *testing.T) {
	// {"fmt": "mock", "attStmt": {}, "authData": h''}
	raw := []byte{
		0xa3,
		0x63, 'f', 'm', 't', 0x64, 'm', 'o', 'c', 'k',
		0x67, 'a', 't', 't', 'S', 't', 'm', 't', 0xa0,
		0x68, 'a', 'u', 't', 'h', 'D', 'a', 't', 'a', 0x40,
	}

	_, err := ParseAttestationObject(testDecMode, raw)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestPackedAttestationStatementFormat(t *testing.T) {
	attObj := &AttestationObject{
		Format: webauthntypes.AttestationStatementFormatIdentifierPacked,
		AttestationStatement: map[string]any{
			"alg": int64(-7),
			"sig": []byte{0x30, 0x45},
			"x5c": []any{[]byte("leaf"), []byte("intermediate")},
		},
	}

	stmt, ok := attObj.PackedAttestationStatementFormat()
	require.True(t, ok)
	assert.Equal(t, iana.AlgorithmES256, int(stmt.Algorithm))
	assert.Equal(t, []byte{0x30, 0x45}, stmt.Signature)
	assert.Equal(t, [][]byte{[]byte("leaf"), []byte("intermediate")}, stmt.X509Chain)

	// Statements of another shape do not coerce.
	_, ok = (&AttestationObject{AttestationStatement: map[string]any{}}).PackedAttestationStatementFormat()
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	raw, err := base64.RawURLEncoding.DecodeString(assertionAuthDataDump)
	require.NoError(t, err)

	authData, err := Parse(testDecMode, raw)
	require.NoError(t, err)

	rpIDHash := sha256.Sum256([]byte("localhost"))
	assert.Equal(t, rpIDHash[:], authData.RPIDHash)
	assert.True(t, authData.Flags.UserPresent())
	assert.False(t, authData.Flags.UserVerified())
	assert.Equal(t, uint32(363), authData.SignCount)
	assert.Nil(t, authData.AttestedCredentialData)
	assert.Nil(t, authData.Extensions)

	extensions, err := authData.DecodeExtensions(testDecMode)
	require.NoError(t, err)
	assert.Nil(t, extensions)
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse(testDecMode, make([]byte, 36))
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestParseTrailingBytes(t *testing.T) {
	data := make([]byte, 38)
	data[32] = byte(AuthDataFlagUserPresent)

	_, err := Parse(testDecMode, data)
	assert.ErrorIs(t, err, ErrTrailingBytes)
}

func TestParseTruncatedCredentialData(t *testing.T) {
	data := make([]byte, 37, 47)
	data[32] = byte(AuthDataFlagUserPresent | AuthDataFlagAttestedCredentialDataIncluded)
	data = append(data, make([]byte, 10)...) // not even a full AAGUID

	_, err := Parse(testDecMode, data)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestParseCredentialIDTooLong(t *testing.T) {
	data := make([]byte, 37)
	data[32] = byte(AuthDataFlagUserPresent | AuthDataFlagAttestedCredentialDataIncluded)
	data = append(data, make([]byte, 16)...) // AAGUID
	data = append(data, 0x04, 0x00)          // credential ID length 1024
	data = append(data, make([]byte, 1024)...)

	_, err := Parse(testDecMode, data)
	assert.ErrorIs(t, err, ErrCredentialIDTooLong)
}

func TestParseExtensionFlagWithoutPayload(t *testing.T) {
	data := make([]byte, 37)
	data[32] = byte(AuthDataFlagUserPresent | AuthDataFlagExtensionDataIncluded)

	_, err := Parse(testDecMode, data)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestParseExtensions(t *testing.T) {
	data := make([]byte, 37)
	data[32] = byte(AuthDataFlagUserPresent | AuthDataFlagExtensionDataIncluded)
	// {"credProtect": 2}
	data = append(data, 0xa1, 0x6b)
	data = append(data, []byte("credProtect")...)
	data = append(data, 0x02)

	authData, err := Parse(testDecMode, data)
	require.NoError(t, err)

	extensions, err := authData.DecodeExtensions(testDecMode)
	require.NoError(t, err)
	require.Contains(t, extensions, webauthntypes.ExtensionIdentifierCredentialProtection)
	assert.Equal(t, []byte{0x02}, []byte(extensions[webauthntypes.ExtensionIdentifierCredentialProtection]))
}
