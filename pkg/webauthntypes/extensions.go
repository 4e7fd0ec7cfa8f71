package webauthntypes

// Client extension inputs/outputs in their JSON wire form, composed per
// ceremony. A nil embedded extension is absent from the serialized map.
// https://www.w3.org/TR/webauthn-3/#dictdef-authenticationextensionsclientinputsjson

type CreateAuthenticationExtensionsClientInputs struct {
	*CreateCredentialPropertiesInputs
	*CreateCredentialProtectionInputs
	*CreateCredentialBlobInputs
	*CreateMinPinLengthInputs
	*LargeBlobInputs
	*PRFInputs
	*PaymentInputs
}

type CreateAuthenticationExtensionsClientOutputs struct {
	*CreateCredentialPropertiesOutputs
	*CreateCredentialBlobOutputs
	*LargeBlobOutputs
	*PRFOutputs
	*PaymentOutputs
}

type GetAuthenticationExtensionsClientInputs struct {
	*GetAppIDInputs
	*GetCredentialBlobInputs
	*LargeBlobInputs
	*PRFInputs
	*PaymentInputs
}

type GetAuthenticationExtensionsClientOutputs struct {
	*GetAppIDOutputs
	*GetCredentialBlobOutputs
	*LargeBlobOutputs
	*PRFOutputs
	*PaymentOutputs
}
