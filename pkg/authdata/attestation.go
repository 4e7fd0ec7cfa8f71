package authdata

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"
	"github.com/ldclabs/cose/key"
)

var ErrNoFormat = errors.New("authdata: attestation object without format identifier")

// AttestationObject is the CBOR envelope an authenticator returns from
// credential creation.
// https://www.w3.org/TR/webauthn-3/#sctn-attestation
type AttestationObject struct {
	Format               webauthntypes.AttestationStatementFormatIdentifier `cbor:"fmt"`
	AuthDataRaw          []byte                                             `cbor:"authData"`
	AttestationStatement map[string]any                                     `cbor:"attStmt"`
	AuthData             *AuthenticatorData                                 `cbor:"-"`
}

// ParseAttestationObject decodes the envelope and the authenticator data
// inside it. The attestation statement stays as decoded CBOR; typed views are
// available through the statement accessors.
func ParseAttestationObject(decMode cbor.DecMode, data []byte) (*AttestationObject, error) {
	var attObj AttestationObject
	if err := decMode.Unmarshal(data, &attObj); err != nil {
		return nil, fmt.Errorf("cannot decode attestation object: %w", err)
	}
	if attObj.Format == "" {
		return nil, ErrNoFormat
	}
	if len(attObj.AuthDataRaw) == 0 {
		return nil, fmt.Errorf("%w: attestation object without authenticator data", ErrTooShort)
	}

	authData, err := Parse(decMode, attObj.AuthDataRaw)
	if err != nil {
		return nil, err
	}
	attObj.AuthData = authData

	return &attObj, nil
}

func (o *AttestationObject) PackedAttestationStatementFormat() (*webauthntypes.PackedAttestationStatementFormat, bool) {
	algRaw, ok := o.AttestationStatement["alg"]
	if !ok {
		return nil, false
	}
	alg, ok := algRaw.(int64)
	if !ok {
		return nil, false
	}

	sigRaw, ok := o.AttestationStatement["sig"]
	if !ok {
		return nil, false
	}
	sig, ok := sigRaw.([]byte)
	if !ok {
		return nil, false
	}

	x5c, ok := x509Chain(o.AttestationStatement)
	if !ok {
		return nil, false
	}

	return &webauthntypes.PackedAttestationStatementFormat{
		Algorithm: key.Alg(alg),
		Signature: sig,
		X509Chain: x5c,
	}, true
}

func (o *AttestationObject) FIDOU2FAttestationStatementFormat() (*webauthntypes.FIDOU2FAttestationStatementFormat, bool) {
	x5c, ok := x509Chain(o.AttestationStatement)
	if !ok {
		return nil, false
	}

	sigRaw, ok := o.AttestationStatement["sig"]
	if !ok {
		return nil, false
	}
	sig, ok := sigRaw.([]byte)
	if !ok {
		return nil, false
	}

	return &webauthntypes.FIDOU2FAttestationStatementFormat{
		Signature: sig,
		X509Chain: x5c,
	}, true
}

func (o *AttestationObject) TPMAttestationStatementFormat() (*webauthntypes.TPMAttestationStatementFormat, bool) {
	verRaw, ok := o.AttestationStatement["ver"]
	if !ok {
		return nil, false
	}
	ver, ok := verRaw.(string)
	if !ok {
		return nil, false
	}

	algRaw, ok := o.AttestationStatement["alg"]
	if !ok {
		return nil, false
	}
	alg, ok := algRaw.(int64)
	if !ok {
		return nil, false
	}

	x5c, ok := x509Chain(o.AttestationStatement)
	if !ok {
		return nil, false
	}

	sigRaw, ok := o.AttestationStatement["sig"]
	if !ok {
		return nil, false
	}
	sig, ok := sigRaw.([]byte)
	if !ok {
		return nil, false
	}

	certInfoRaw, ok := o.AttestationStatement["certInfo"]
	if !ok {
		return nil, false
	}
	certInfo, ok := certInfoRaw.([]byte)
	if !ok {
		return nil, false
	}

	pubAreaRaw, ok := o.AttestationStatement["pubArea"]
	if !ok {
		return nil, false
	}
	pubArea, ok := pubAreaRaw.([]byte)
	if !ok {
		return nil, false
	}

	return &webauthntypes.TPMAttestationStatementFormat{
		Version:   ver,
		Algorithm: key.Alg(alg),
		X509Chain: x5c,
		Signature: sig,
		CertInfo:  certInfo,
		PubArea:   pubArea,
	}, true
}

func x509Chain(attStmt map[string]any) ([][]byte, bool) {
	x5cRaw, ok := attStmt["x5c"]
	if !ok {
		return nil, false
	}
	x5cSlice, ok := x5cRaw.([]any)
	if !ok {
		return nil, false
	}

	var x5c [][]byte
	for _, certRaw := range x5cSlice {
		cert, ok := certRaw.([]byte)
		if !ok {
			return nil, false
		}
		x5c = append(x5c, cert)
	}

	return x5c, true
}
