package webauthntypes

// Secure Payment Confirmation client extension.
// https://www.w3.org/TR/secure-payment-confirmation/#sctn-payment-extension-registration

type PaymentEntityLogo struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

type PaymentCurrencyAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type PaymentCredentialInstrument struct {
	DisplayName     string `json:"displayName"`
	Icon            string `json:"icon"`
	IconMustBeShown bool   `json:"iconMustBeShown,omitempty"` // should default to true
	Details         string `json:"details,omitempty"`
}

type AuthenticationExtensionsPaymentInputs struct {
	IsPayment                    bool                            `json:"isPayment"`
	BrowserBoundPubKeyCredParams []PublicKeyCredentialParameters `json:"browserBoundPubKeyCredParams,omitempty"`

	// Authentication only.
	RPID                 string                       `json:"rpId,omitempty"`
	TopOrigin            string                       `json:"topOrigin,omitempty"`
	PayeeName            string                       `json:"payeeName,omitempty"`
	PayeeOrigin          string                       `json:"payeeOrigin,omitempty"`
	PaymentEntitiesLogos []PaymentEntityLogo          `json:"paymentEntitiesLogos,omitempty"`
	Total                *PaymentCurrencyAmount       `json:"total,omitempty"`
	Instrument           *PaymentCredentialInstrument `json:"instrument,omitempty"`
}

type PaymentInputs struct {
	Payment AuthenticationExtensionsPaymentInputs `json:"payment"`
}

type BrowserBoundSignature struct {
	Signature Base64URL `json:"signature"`
}

type AuthenticationExtensionsPaymentOutputs struct {
	BrowserBoundSignature *BrowserBoundSignature `json:"browserBoundSignature,omitempty"`
}

type PaymentOutputs struct {
	Payment AuthenticationExtensionsPaymentOutputs `json:"payment"`
}
