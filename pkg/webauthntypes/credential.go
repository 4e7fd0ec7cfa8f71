package webauthntypes

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Base64URL is a byte slice that marshals to and from the unpadded base64url
// encoding the WebAuthn JSON wire format uses for binary values. Padded input
// is accepted.
type Base64URL []byte

func (b Base64URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.RawURLEncoding.EncodeToString(b))
}

func (b *Base64URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return err
	}

	*b = raw

	return nil
}

func (b Base64URL) String() string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// AuthenticatorAttestationResponse is the authenticator's response to a
// credential creation request.
// https://www.w3.org/TR/webauthn-3/#authenticatorattestationresponse
type AuthenticatorAttestationResponse struct {
	ClientDataJSON    Base64URL                `json:"clientDataJSON"`
	AttestationObject Base64URL                `json:"attestationObject"`
	Transports        []AuthenticatorTransport `json:"transports,omitempty"`
}

// RegistrationCredential is the PublicKeyCredential envelope returned by
// navigator.credentials.create, in its JSON serialization.
// https://www.w3.org/TR/webauthn-3/#iface-pkcredential
type RegistrationCredential struct {
	ID                      string                                       `json:"id"`
	RawID                   Base64URL                                    `json:"rawId"`
	Type                    PublicKeyCredentialType                      `json:"type"`
	AuthenticatorAttachment AuthenticatorAttachment                      `json:"authenticatorAttachment,omitempty"`
	Response                AuthenticatorAttestationResponse             `json:"response"`
	ClientExtensionResults  *CreateAuthenticationExtensionsClientOutputs `json:"clientExtensionResults,omitempty"`
}

// AuthenticatorAssertionResponse is the authenticator's response to an
// authentication request.
// https://www.w3.org/TR/webauthn-3/#authenticatorassertionresponse
type AuthenticatorAssertionResponse struct {
	ClientDataJSON    Base64URL `json:"clientDataJSON"`
	AuthenticatorData Base64URL `json:"authenticatorData"`
	Signature         Base64URL `json:"signature"`
	UserHandle        Base64URL `json:"userHandle,omitempty"`
}

// AssertionCredential is the PublicKeyCredential envelope returned by
// navigator.credentials.get, in its JSON serialization.
// https://www.w3.org/TR/webauthn-3/#iface-pkcredential
type AssertionCredential struct {
	ID                      string                                    `json:"id"`
	RawID                   Base64URL                                 `json:"rawId"`
	Type                    PublicKeyCredentialType                   `json:"type"`
	AuthenticatorAttachment AuthenticatorAttachment                   `json:"authenticatorAttachment,omitempty"`
	Response                AuthenticatorAssertionResponse            `json:"response"`
	ClientExtensionResults  *GetAuthenticationExtensionsClientOutputs `json:"clientExtensionResults,omitempty"`
}
