package webauthntypes

type LargeBlobSupport string

const (
	LargeBlobSupportRequired  LargeBlobSupport = "required"
	LargeBlobSupportPreferred LargeBlobSupport = "preferred"
)

type AuthenticationExtensionsLargeBlobInputs struct {
	Support LargeBlobSupport `json:"support,omitempty"`
	Read    bool             `json:"read,omitempty"`
	Write   Base64URL        `json:"write,omitempty"`
}
type LargeBlobInputs struct {
	LargeBlob AuthenticationExtensionsLargeBlobInputs `json:"largeBlob"`
}

type AuthenticationExtensionsLargeBlobOutputs struct {
	Supported bool      `json:"supported,omitempty"`
	Blob      Base64URL `json:"blob,omitempty"`
	Written   bool      `json:"written,omitempty"`
}

type LargeBlobOutputs struct {
	LargeBlob AuthenticationExtensionsLargeBlobOutputs `json:"largeBlob"`
}
