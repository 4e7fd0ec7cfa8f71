package webauthntypes

import "github.com/ldclabs/cose/key"

// PackedAttestationStatementFormat is a WebAuthn optimized attestation statement format.
// https://www.w3.org/TR/webauthn-3/#sctn-packed-attestation
type PackedAttestationStatementFormat struct {
	Algorithm key.Alg  `cbor:"alg"`
	Signature []byte   `cbor:"sig"`
	X509Chain [][]byte `cbor:"x5c"`
}

// FIDOU2FAttestationStatementFormat is the attestation statement format used with FIDO U2F authenticators.
// https://www.w3.org/TR/webauthn-3/#sctn-fido-u2f-attestation
type FIDOU2FAttestationStatementFormat struct {
	X509Chain [][]byte `cbor:"x5c"`
	Signature []byte   `cbor:"sig"`
}

// TPMAttestationStatementFormat is generally used by authenticators that use a Trusted Platform Module
// as their cryptographic engine.
// https://www.w3.org/TR/webauthn-3/#sctn-tpm-attestation
type TPMAttestationStatementFormat struct {
	Version   string   `cbor:"ver"`
	Algorithm key.Alg  `cbor:"alg"`
	X509Chain [][]byte `cbor:"x5c"`
	Signature []byte   `cbor:"sig"`
	CertInfo  []byte   `cbor:"certInfo"` // TPMS_ATTEST structure
	PubArea   []byte   `cbor:"pubArea"`  // TPMT_PUBLIC structure
}
