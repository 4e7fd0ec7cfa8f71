package options

import (
	"log/slog"

	"github.com/fxamacker/cbor/v2"
)

type Options struct {
	Logger  *slog.Logger
	DecMode cbor.DecMode
}

type Option func(*Options)

func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithDecMode(decMode cbor.DecMode) Option {
	return func(opts *Options) {
		opts.DecMode = decMode
	}
}

// NewOptions applies opts over the defaults: slog.Default and a strict CBOR
// decode mode that rejects duplicate map keys, indefinite lengths and tags,
// matching the CTAP2 canonical encoding rules authenticators must follow.
func NewOptions(opts ...Option) *Options {
	decMode, _ := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		TagsMd:      cbor.TagsForbidden,
	}.DecMode()
	oo := &Options{
		Logger:  slog.Default(),
		DecMode: decMode,
	}

	for _, opt := range opts {
		opt(oo)
	}

	return oo
}
