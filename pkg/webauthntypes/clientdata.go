package webauthntypes

type (
	// CeremonyType distinguishes the two WebAuthn ceremonies inside collected
	// client data.
	// https://www.w3.org/TR/webauthn-3/#dictdef-collectedclientdata
	CeremonyType string
	// TokenBindingStatus reports the client's token binding support.
	// https://www.w3.org/TR/webauthn-3/#enumdef-tokenbindingstatus
	TokenBindingStatus string
)

const (
	CeremonyTypeCreate CeremonyType = "webauthn.create"
	CeremonyTypeGet    CeremonyType = "webauthn.get"
)

const (
	TokenBindingStatusPresent   TokenBindingStatus = "present"
	TokenBindingStatusSupported TokenBindingStatus = "supported"
)

// TokenBinding describes the token binding, if any, between client and
// Relying Party.
// https://www.w3.org/TR/webauthn-3/#dictdef-tokenbinding
type TokenBinding struct {
	Status TokenBindingStatus `json:"status"`
	ID     string             `json:"id,omitempty"`
}

// CollectedClientData is the contextual data signed over by the client during
// a ceremony. Challenge keeps the client's base64url string form; comparison
// against the expected value happens on the decoded bytes.
// https://www.w3.org/TR/webauthn-3/#dictdef-collectedclientdata
type CollectedClientData struct {
	Type         CeremonyType  `json:"type"`
	Challenge    string        `json:"challenge"`
	Origin       string        `json:"origin"`
	CrossOrigin  bool          `json:"crossOrigin,omitempty"`
	TokenBinding *TokenBinding `json:"tokenBinding,omitempty"`
}
