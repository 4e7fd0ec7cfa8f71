package webauthntypes

type CreateCredentialPropertiesInputs struct {
	CredentialProperties bool `json:"credProps,omitempty"`
}

type CredentialPropertiesOutput struct {
	ResidentKey bool `json:"rk"`
}
type CreateCredentialPropertiesOutputs struct {
	CredentialProperties CredentialPropertiesOutput `json:"credProps"`
}
