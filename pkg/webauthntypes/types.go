package webauthntypes

import "github.com/ldclabs/cose/key"

type (
	// PublicKeyCredentialType defines the valid credential types.
	// https://www.w3.org/TR/webauthn-3/#enumdef-publickeycredentialtype
	PublicKeyCredentialType string
	// AuthenticatorTransport defines hints as to how clients might communicate
	// with a particular authenticator in order to obtain an assertion for a specific credential.
	// https://www.w3.org/TR/webauthn-3/#enumdef-authenticatortransport
	AuthenticatorTransport string
	// AttestationStatementFormatIdentifier is an enum consisting of IANA registered Attestation Statement Format Identifiers.
	// https://www.iana.org/assignments/webauthn/webauthn.xhtml
	AttestationStatementFormatIdentifier string
	// ExtensionIdentifier is an enum consisting of IANA registered Extension Identifiers.
	// https://www.iana.org/assignments/webauthn/webauthn.xhtml
	ExtensionIdentifier string
	// PublicKeyCredentialHint is used by WebAuthn Relying Parties to communicate hints to the user-agent about
	// how a request may be best completed.
	// https://www.w3.org/TR/webauthn-3/#enum-hints
	PublicKeyCredentialHint string
	// AttestationConveyancePreference expresses the Relying Party's preference
	// regarding attestation conveyance during credential creation.
	// https://www.w3.org/TR/webauthn-3/#enumdef-attestationconveyancepreference
	AttestationConveyancePreference string
	// AuthenticatorAttachment describes authenticators' attachment modalities.
	// https://www.w3.org/TR/webauthn-3/#enumdef-authenticatorattachment
	AuthenticatorAttachment string
	// ResidentKeyRequirement expresses the Relying Party's preference for
	// client-side discoverable credentials.
	// https://www.w3.org/TR/webauthn-3/#enumdef-residentkeyrequirement
	ResidentKeyRequirement string
	// UserVerificationRequirement expresses the Relying Party's user
	// verification requirements for a ceremony.
	// https://www.w3.org/TR/webauthn-3/#enumdef-userverificationrequirement
	UserVerificationRequirement string
)

const (
	PublicKeyCredentialTypePublicKey PublicKeyCredentialType = "public-key"
)

const (
	AuthenticatorTransportUSB       AuthenticatorTransport = "usb"
	AuthenticatorTransportNFC       AuthenticatorTransport = "nfc"
	AuthenticatorTransportBLE       AuthenticatorTransport = "ble"
	AuthenticatorTransportSmartCard AuthenticatorTransport = "smart-card"
	AuthenticatorTransportHybrid    AuthenticatorTransport = "hybrid"
	AuthenticatorTransportInternal  AuthenticatorTransport = "internal"
)

const (
	AttestationStatementFormatIdentifierPacked           AttestationStatementFormatIdentifier = "packed"
	AttestationStatementFormatIdentifierTPM              AttestationStatementFormatIdentifier = "tpm"
	AttestationStatementFormatIdentifierAndroidKey       AttestationStatementFormatIdentifier = "android-key"
	AttestationStatementFormatIdentifierAndroidSafetyNet AttestationStatementFormatIdentifier = "android-safetynet"
	AttestationStatementFormatIdentifierFIDOU2F          AttestationStatementFormatIdentifier = "fido-u2f"
	AttestationStatementFormatIdentifierApple            AttestationStatementFormatIdentifier = "apple"
	AttestationStatementFormatIdentifierNone             AttestationStatementFormatIdentifier = "none"
)

const (
	ExtensionIdentifierAppID                  ExtensionIdentifier = "appid"
	ExtensionIdentifierAppIDExclude           ExtensionIdentifier = "appidExclude"
	ExtensionIdentifierUserVerificationMethod ExtensionIdentifier = "uvm"
	ExtensionIdentifierCredentialProtection   ExtensionIdentifier = "credProtect"
	ExtensionIdentifierCredentialBlob         ExtensionIdentifier = "credBlob"
	ExtensionIdentifierLargeBlobKey           ExtensionIdentifier = "largeBlobKey"
	ExtensionIdentifierMinPinLength           ExtensionIdentifier = "minPinLength"
	ExtensionIdentifierHMACSecret             ExtensionIdentifier = "hmac-secret"
	ExtensionIdentifierCredentialProperties   ExtensionIdentifier = "credProps"
	ExtensionIdentifierLargeBlob              ExtensionIdentifier = "largeBlob"
	ExtensionIdentifierPayment                ExtensionIdentifier = "payment"
	ExtensionIdentifierPRF                    ExtensionIdentifier = "prf"
)

const (
	PublicKeyCredentialHintSecurityKey  PublicKeyCredentialHint = "security-key"
	PublicKeyCredentialHintClientDevice PublicKeyCredentialHint = "client-device"
	PublicKeyCredentialHintHybrid       PublicKeyCredentialHint = "hybrid"
)

const (
	AttestationConveyancePreferenceNone       AttestationConveyancePreference = "none"
	AttestationConveyancePreferenceIndirect   AttestationConveyancePreference = "indirect"
	AttestationConveyancePreferenceDirect     AttestationConveyancePreference = "direct"
	AttestationConveyancePreferenceEnterprise AttestationConveyancePreference = "enterprise"
)

const (
	AuthenticatorAttachmentPlatform      AuthenticatorAttachment = "platform"
	AuthenticatorAttachmentCrossPlatform AuthenticatorAttachment = "cross-platform"
)

const (
	ResidentKeyRequirementDiscouraged ResidentKeyRequirement = "discouraged"
	ResidentKeyRequirementPreferred   ResidentKeyRequirement = "preferred"
	ResidentKeyRequirementRequired    ResidentKeyRequirement = "required"
)

const (
	UserVerificationRequirementRequired    UserVerificationRequirement = "required"
	UserVerificationRequirementPreferred   UserVerificationRequirement = "preferred"
	UserVerificationRequirementDiscouraged UserVerificationRequirement = "discouraged"
)

// PublicKeyCredentialRpEntity is used to supply additional Relying Party attributes when creating a new credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialrpentity
type PublicKeyCredentialRpEntity struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Icon string `json:"icon,omitempty"` // deprecated
}

// PublicKeyCredentialUserEntity is used to supply additional user account attributes when creating a new credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialuserentity
type PublicKeyCredentialUserEntity struct {
	ID          Base64URL `json:"id"`
	DisplayName string    `json:"displayName,omitempty"`
	Name        string    `json:"name,omitempty"`
	Icon        string    `json:"icon,omitempty"` // deprecated
}

// PublicKeyCredentialDescriptor identifies a specific public key credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialdescriptor
type PublicKeyCredentialDescriptor struct {
	Type       PublicKeyCredentialType  `json:"type"`
	ID         Base64URL                `json:"id"`
	Transports []AuthenticatorTransport `json:"transports,omitempty"`
}

// PublicKeyCredentialParameters is used to supply additional parameters when creating a new credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialparameters
type PublicKeyCredentialParameters struct {
	Type      PublicKeyCredentialType `json:"type"`
	Algorithm key.Alg                 `json:"alg"`
}

// AuthenticatorSelectionCriteria lets a Relying Party select the eligible
// authenticators for credential creation.
// https://www.w3.org/TR/webauthn-3/#dictdef-authenticatorselectioncriteria
type AuthenticatorSelectionCriteria struct {
	AuthenticatorAttachment AuthenticatorAttachment     `json:"authenticatorAttachment,omitempty"`
	ResidentKey             ResidentKeyRequirement      `json:"residentKey,omitempty"`
	RequireResidentKey      bool                        `json:"requireResidentKey,omitempty"`
	UserVerification        UserVerificationRequirement `json:"userVerification,omitempty"`
}

// PublicKeyCredentialCreationOptions is handed to navigator.credentials.create
// to register a new credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialcreationoptions
type PublicKeyCredentialCreationOptions struct {
	RP                     PublicKeyCredentialRpEntity                  `json:"rp"`
	User                   PublicKeyCredentialUserEntity                `json:"user"`
	Challenge              Base64URL                                    `json:"challenge"`
	PubKeyCredParams       []PublicKeyCredentialParameters              `json:"pubKeyCredParams"`
	Timeout                uint64                                       `json:"timeout,omitempty"` // milliseconds
	ExcludeCredentials     []PublicKeyCredentialDescriptor              `json:"excludeCredentials,omitempty"`
	AuthenticatorSelection *AuthenticatorSelectionCriteria              `json:"authenticatorSelection,omitempty"`
	Hints                  []PublicKeyCredentialHint                    `json:"hints,omitempty"`
	Attestation            AttestationConveyancePreference              `json:"attestation,omitempty"`
	Extensions             *CreateAuthenticationExtensionsClientInputs  `json:"extensions,omitempty"`
}

// PublicKeyCredentialRequestOptions is handed to navigator.credentials.get
// to authenticate with an existing credential.
// https://www.w3.org/TR/webauthn-3/#dictdef-publickeycredentialrequestoptions
type PublicKeyCredentialRequestOptions struct {
	Challenge        Base64URL                                `json:"challenge"`
	Timeout          uint64                                   `json:"timeout,omitempty"` // milliseconds
	RPID             string                                   `json:"rpId,omitempty"`
	AllowCredentials []PublicKeyCredentialDescriptor          `json:"allowCredentials,omitempty"`
	UserVerification UserVerificationRequirement              `json:"userVerification,omitempty"`
	Hints            []PublicKeyCredentialHint                `json:"hints,omitempty"`
	Extensions       *GetAuthenticationExtensionsClientInputs `json:"extensions,omitempty"`
}
