// Package softtoken is an in-process software authenticator. It fabricates
// the envelopes a client would deliver after navigator.credentials calls,
// which gives examples and tests real, verifiable signatures without
// hardware.
package softtoken

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/go-ctap/webauthnrp/pkg/authdata"
	"github.com/go-ctap/webauthnrp/pkg/webauthntypes"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
	ecdsa2 "github.com/ldclabs/cose/key/ecdsa"
	eddsa "github.com/ldclabs/cose/key/ed25519"
)

var (
	ErrUnknownCredential    = errors.New("softtoken: no credential matches the request")
	ErrUnsupportedAlgorithm = errors.New("softtoken: unsupported algorithm")
)

type credentialSource struct {
	id         []byte
	rpID       string
	userHandle []byte
	signer     crypto.Signer
	alg        key.Alg
	signCount  uint32
}

// Token is an in-memory authenticator holding any number of credentials.
// It is not safe for concurrent use.
type Token struct {
	aaguid       uuid.UUID
	credentials  map[string]*credentialSource
	encMode      cbor.EncMode
	userVerified bool
}

type Option func(*Token)

// WithAAGUID fixes the authenticator model identifier instead of the random
// default.
func WithAAGUID(aaguid uuid.UUID) Option {
	return func(t *Token) {
		t.aaguid = aaguid
	}
}

// WithoutUserVerification leaves the UV flag unset, like a presence-only
// security key.
func WithoutUserVerification() Option {
	return func(t *Token) {
		t.userVerified = false
	}
}

// New creates an empty token with a random AAGUID that verifies its user.
func New(opts ...Option) *Token {
	encMode, _ := cbor.CTAP2EncOptions().EncMode()
	t := &Token{
		aaguid:       uuid.New(),
		credentials:  make(map[string]*credentialSource),
		encMode:      encMode,
		userVerified: true,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// MakeCredential creates a credential for the first mutually supported
// algorithm in creationOptions and returns the registration envelope a
// client at origin would deliver. The attestation object uses the "none"
// format.
func (t *Token) MakeCredential(
	origin string,
	creationOptions *webauthntypes.PublicKeyCredentialCreationOptions,
) (*webauthntypes.RegistrationCredential, error) {
	alg, err := t.pickAlgorithm(creationOptions.PubKeyCredParams)
	if err != nil {
		return nil, err
	}

	signer, coseKey, err := generateKey(alg)
	if err != nil {
		return nil, err
	}

	credentialID := make([]byte, 32)
	if _, err := rand.Read(credentialID); err != nil {
		return nil, fmt.Errorf("cannot read entropy: %w", err)
	}

	t.credentials[string(credentialID)] = &credentialSource{
		id:         credentialID,
		rpID:       creationOptions.RP.ID,
		userHandle: creationOptions.User.ID,
		signer:     signer,
		alg:        alg,
	}

	attested, err := t.attestedCredentialData(credentialID, coseKey)
	if err != nil {
		return nil, err
	}

	flags := authdata.AuthDataFlagUserPresent | authdata.AuthDataFlagAttestedCredentialDataIncluded
	if t.userVerified {
		flags |= authdata.AuthDataFlagUserVerified
	}

	attObjRaw, err := t.encMode.Marshal(&authdata.AttestationObject{
		Format:               webauthntypes.AttestationStatementFormatIdentifierNone,
		AuthDataRaw:          buildAuthData(creationOptions.RP.ID, flags, 0, attested),
		AttestationStatement: map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot marshal attestation object: %w", err)
	}

	clientDataJSON, err := json.Marshal(&webauthntypes.CollectedClientData{
		Type:      webauthntypes.CeremonyTypeCreate,
		Challenge: creationOptions.Challenge.String(),
		Origin:    origin,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot marshal client data: %w", err)
	}

	return &webauthntypes.RegistrationCredential{
		ID:                      webauthntypes.Base64URL(credentialID).String(),
		RawID:                   credentialID,
		Type:                    webauthntypes.PublicKeyCredentialTypePublicKey,
		AuthenticatorAttachment: webauthntypes.AuthenticatorAttachmentPlatform,
		Response: webauthntypes.AuthenticatorAttestationResponse{
			ClientDataJSON:    clientDataJSON,
			AttestationObject: attObjRaw,
			Transports: []webauthntypes.AuthenticatorTransport{
				webauthntypes.AuthenticatorTransportInternal,
			},
		},
	}, nil
}

// GetAssertion answers requestOptions with a signed assertion envelope from
// the matching credential, advancing its signature counter.
func (t *Token) GetAssertion(
	origin string,
	requestOptions *webauthntypes.PublicKeyCredentialRequestOptions,
) (*webauthntypes.AssertionCredential, error) {
	src := t.lookup(requestOptions)
	if src == nil {
		return nil, ErrUnknownCredential
	}

	clientDataJSON, err := json.Marshal(&webauthntypes.CollectedClientData{
		Type:      webauthntypes.CeremonyTypeGet,
		Challenge: requestOptions.Challenge.String(),
		Origin:    origin,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot marshal client data: %w", err)
	}

	flags := authdata.AuthDataFlagUserPresent
	if t.userVerified {
		flags |= authdata.AuthDataFlagUserVerified
	}

	src.signCount++
	authDataRaw := buildAuthData(src.rpID, flags, src.signCount, nil)

	clientDataHash := sha256.Sum256(clientDataJSON)
	sig, err := src.sign(slices.Concat(authDataRaw, clientDataHash[:]))
	if err != nil {
		return nil, err
	}

	return &webauthntypes.AssertionCredential{
		ID:                      webauthntypes.Base64URL(src.id).String(),
		RawID:                   slices.Clone(src.id),
		Type:                    webauthntypes.PublicKeyCredentialTypePublicKey,
		AuthenticatorAttachment: webauthntypes.AuthenticatorAttachmentPlatform,
		Response: webauthntypes.AuthenticatorAssertionResponse{
			ClientDataJSON:    clientDataJSON,
			AuthenticatorData: authDataRaw,
			Signature:         sig,
			UserHandle:        src.userHandle,
		},
	}, nil
}

func (t *Token) lookup(requestOptions *webauthntypes.PublicKeyCredentialRequestOptions) *credentialSource {
	if len(requestOptions.AllowCredentials) > 0 {
		for _, desc := range requestOptions.AllowCredentials {
			if src, ok := t.credentials[string(desc.ID)]; ok && src.rpID == requestOptions.RPID {
				return src
			}
		}

		return nil
	}

	for _, src := range t.credentials {
		if src.rpID == requestOptions.RPID {
			return src
		}
	}

	return nil
}

func (t *Token) pickAlgorithm(params []webauthntypes.PublicKeyCredentialParameters) (key.Alg, error) {
	for _, param := range params {
		switch param.Algorithm {
		case iana.AlgorithmES256, iana.AlgorithmEdDSA, iana.AlgorithmRS256:
			return param.Algorithm, nil
		}
	}

	return 0, fmt.Errorf("%w: no mutually supported algorithm offered", ErrUnsupportedAlgorithm)
}

func (t *Token) attestedCredentialData(credentialID []byte, coseKey key.Key) ([]byte, error) {
	keyRaw, err := t.encMode.Marshal(coseKey)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal credential public key: %w", err)
	}

	data := make([]byte, 0, 16+2+len(credentialID)+len(keyRaw))
	data = append(data, t.aaguid[:]...)
	data = binary.BigEndian.AppendUint16(data, uint16(len(credentialID)))
	data = append(data, credentialID...)

	return append(data, keyRaw...), nil
}

func buildAuthData(rpID string, flags authdata.AuthDataFlag, signCount uint32, attested []byte) []byte {
	rpIDHash := sha256.Sum256([]byte(rpID))

	data := make([]byte, 0, 37+len(attested))
	data = append(data, rpIDHash[:]...)
	data = append(data, byte(flags))
	data = binary.BigEndian.AppendUint32(data, signCount)

	return append(data, attested...)
}

func generateKey(alg key.Alg) (crypto.Signer, key.Key, error) {
	switch alg {
	case iana.AlgorithmES256:
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		coseKey, err := ecdsa2.KeyFromPublic(&priv.PublicKey)
		if err != nil {
			return nil, nil, err
		}
		if err := coseKey.Set(iana.KeyParameterAlg, alg); err != nil {
			return nil, nil, err
		}

		return priv, coseKey, nil
	case iana.AlgorithmEdDSA:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		coseKey, err := eddsa.KeyFromPublic(pub)
		if err != nil {
			return nil, nil, err
		}
		if err := coseKey.Set(iana.KeyParameterAlg, alg); err != nil {
			return nil, nil, err
		}

		return priv, coseKey, nil
	case iana.AlgorithmRS256:
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, nil, err
		}
		coseKey := key.Key{
			iana.KeyParameterKty:  iana.KeyTypeRSA,
			iana.KeyParameterAlg:  alg,
			iana.RSAKeyParameterN: priv.PublicKey.N.Bytes(),
			iana.RSAKeyParameterE: big.NewInt(int64(priv.PublicKey.E)).Bytes(),
		}

		return priv, coseKey, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, alg)
	}
}

func (s *credentialSource) sign(message []byte) ([]byte, error) {
	switch signer := s.signer.(type) {
	case *ecdsa.PrivateKey:
		digest := sha256.Sum256(message)
		return ecdsa.SignASN1(rand.Reader, signer, digest[:])
	case ed25519.PrivateKey:
		return signer.Sign(rand.Reader, message, crypto.Hash(0))
	case *rsa.PrivateKey:
		digest := sha256.Sum256(message)
		return rsa.SignPKCS1v15(rand.Reader, signer, crypto.SHA256, digest[:])
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, s.alg)
	}
}
