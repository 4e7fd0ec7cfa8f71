package webauthntypes

type CreateMinPinLengthInputs struct {
	MinPinLength bool `json:"minPinLength,omitempty"`
}
