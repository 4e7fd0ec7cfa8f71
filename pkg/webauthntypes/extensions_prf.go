package webauthntypes

type AuthenticationExtensionsPRFValues struct {
	First  Base64URL `json:"first"`
	Second Base64URL `json:"second,omitempty"`
}

type AuthenticationExtensionsPRFInputs struct {
	Eval             *AuthenticationExtensionsPRFValues           `json:"eval,omitempty"`
	EvalByCredential map[string]AuthenticationExtensionsPRFValues `json:"evalByCredential,omitempty"`
}

type PRFInputs struct {
	PRF AuthenticationExtensionsPRFInputs `json:"prf"`
}

type AuthenticationExtensionsPRFOutputs struct {
	Enabled bool                              `json:"enabled"`
	Results AuthenticationExtensionsPRFValues `json:"results"`
}

type PRFOutputs struct {
	PRF AuthenticationExtensionsPRFOutputs `json:"prf"`
}
