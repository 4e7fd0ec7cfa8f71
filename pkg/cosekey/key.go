// Package cosekey bridges COSE public keys to Go's crypto types: conversion
// to crypto.PublicKey, PEM serialization at the storage boundary and
// signature verification for the WebAuthn algorithm set.
package cosekey

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"

	"github.com/ldclabs/cose/iana"
	"github.com/ldclabs/cose/key"
	ecdsa2 "github.com/ldclabs/cose/key/ecdsa"
	eddsa "github.com/ldclabs/cose/key/ed25519"
)

var (
	ErrUnsupportedKeyType   = errors.New("cosekey: unsupported COSE key type")
	ErrUnsupportedAlgorithm = errors.New("cosekey: unsupported COSE algorithm")
	ErrKeyMismatch          = errors.New("cosekey: key does not match algorithm")
)

// PublicKey converts a decoded COSE key into the corresponding
// crypto.PublicKey.
func PublicKey(k key.Key) (crypto.PublicKey, error) {
	switch k.Kty() {
	case iana.KeyTypeEC2:
		return ecdsa2.KeyToPublic(k)
	case iana.KeyTypeOKP:
		return eddsa.KeyToPublic(k)
	case iana.KeyTypeRSA:
		return rsaPublicKey(k)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKeyType, k.Kty())
	}
}

// rsaPublicKey assembles an RSA key from its COSE parameters. RFC 8230
// specifies both n and e as byte strings; an integer e is tolerated because
// some authenticators encode it that way.
func rsaPublicKey(k key.Key) (*rsa.PublicKey, error) {
	nRaw, ok := k[iana.RSAKeyParameterN]
	if !ok {
		return nil, errors.New("cosekey: RSA key without modulus")
	}
	n, ok := nRaw.([]byte)
	if !ok || len(n) == 0 {
		return nil, errors.New("cosekey: RSA modulus is not a byte string")
	}

	eRaw, ok := k[iana.RSAKeyParameterE]
	if !ok {
		return nil, errors.New("cosekey: RSA key without public exponent")
	}
	var e int
	switch v := eRaw.(type) {
	case []byte:
		eInt := new(big.Int).SetBytes(v)
		if !eInt.IsInt64() {
			return nil, errors.New("cosekey: RSA public exponent out of range")
		}
		e = int(eInt.Int64())
	case int64:
		e = int(v)
	case uint64:
		e = int(v)
	case int:
		e = v
	default:
		return nil, fmt.Errorf("cosekey: RSA public exponent has type %T", eRaw)
	}
	if e <= 1 {
		return nil, errors.New("cosekey: RSA public exponent out of range")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: e,
	}, nil
}

// AlgorithmOf infers the COSE algorithm from the shape of a parsed public
// key: the curve for ECDSA keys, EdDSA for Ed25519 and RS256 for RSA, which
// is the algorithm WebAuthn RSA credentials register with in practice.
func AlgorithmOf(pub crypto.PublicKey) (key.Alg, error) {
	switch pk := pub.(type) {
	case *ecdsa.PublicKey:
		switch pk.Curve {
		case elliptic.P256():
			return iana.AlgorithmES256, nil
		case elliptic.P384():
			return iana.AlgorithmES384, nil
		case elliptic.P521():
			return iana.AlgorithmES512, nil
		}
		return 0, fmt.Errorf("%w: ECDSA curve %q", ErrUnsupportedKeyType, pk.Curve.Params().Name)
	case ed25519.PublicKey:
		return iana.AlgorithmEdDSA, nil
	case *rsa.PublicKey:
		return iana.AlgorithmRS256, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedKeyType, pub)
	}
}

// MarshalPEM serializes pub as a PKIX "PUBLIC KEY" PEM block, the storage
// form handed to callers at registration.
func MarshalPEM(pub crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal public key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParsePEM is the inverse of MarshalPEM.
func ParsePEM(data []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("cosekey: no PUBLIC KEY PEM block")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cannot parse public key: %w", err)
	}

	return pub, nil
}
