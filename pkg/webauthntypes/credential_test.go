package webauthntypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64URLUnmarshal(t *testing.T) {
	var b Base64URL
	require.NoError(t, json.Unmarshal([]byte(`"Y2hhbGxlbmdl"`), &b))
	assert.Equal(t, Base64URL("challenge"), b)

	// Some clients pad even though the wire serialization does not.
	require.NoError(t, json.Unmarshal([]byte(`"Y2hhbGxlbmdl=="`), &b))
	assert.Equal(t, Base64URL("challenge"), b)

	assert.Error(t, json.Unmarshal([]byte(`"a+b/"`), &b))
}

func TestBase64URLMarshalUnpadded(t *testing.T) {
	raw, err := json.Marshal(Base64URL("challenge"))
	require.NoError(t, err)
	assert.Equal(t, `"Y2hhbGxlbmdl"`, string(raw))
}

const assertionEnvelope = `{
	"id": "AQIDBA",
	"rawId": "AQIDBA",
	"type": "public-key",
	"authenticatorAttachment": "cross-platform",
	"response": {
		"clientDataJSON": "eyJ0eXBlIjoid2ViYXV0aG4uZ2V0In0",
		"authenticatorData": "AAECAw",
		"signature": "BQYHCA",
		"userHandle": "YWxpY2U"
	}
}`

func TestAssertionCredentialUnmarshal(t *testing.T) {
	var cred AssertionCredential
	require.NoError(t, json.Unmarshal([]byte(assertionEnvelope), &cred))

	assert.Equal(t, "AQIDBA", cred.ID)
	assert.Equal(t, Base64URL{0x01, 0x02, 0x03, 0x04}, cred.RawID)
	assert.Equal(t, PublicKeyCredentialTypePublicKey, cred.Type)
	assert.Equal(t, AuthenticatorAttachmentCrossPlatform, cred.AuthenticatorAttachment)
	assert.Equal(t, Base64URL(`{"type":"webauthn.get"}`), cred.Response.ClientDataJSON)
	assert.Equal(t, Base64URL{0x00, 0x01, 0x02, 0x03}, cred.Response.AuthenticatorData)
	assert.Equal(t, Base64URL{0x05, 0x06, 0x07, 0x08}, cred.Response.Signature)
	assert.Equal(t, Base64URL("alice"), cred.Response.UserHandle)
}
