package webauthntypes

type CreateCredentialBlobInputs struct {
	CredBlob Base64URL `json:"credBlob"`
}

type CreateCredentialBlobOutputs struct {
	CredBlob bool `json:"credBlob"`
}

type GetCredentialBlobInputs struct {
	GetCredBlob bool `json:"getCredBlob"`
}

type GetCredentialBlobOutputs struct {
	GetCredBlob Base64URL `json:"getCredBlob"`
}
