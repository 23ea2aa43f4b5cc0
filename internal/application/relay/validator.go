package relay

import (
	"strings"

	"github.com/aescanero/transrelay/pkg/ports"
)

// Defaults applied when the request omits src or dest
const (
	DefaultSourceLang = "auto"
	DefaultTargetLang = "en"
)

// Validator validates translate requests
type Validator struct{}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate trims the text and fills in absent languages. An explicitly empty
// src or dest is passed through unchanged.
func (v *Validator) Validate(req TranslationRequest) (ports.TranslateRequest, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return ports.TranslateRequest{}, ErrTextRequired
	}

	src := DefaultSourceLang
	if req.Src != nil {
		src = *req.Src
	}
	dest := DefaultTargetLang
	if req.Dest != nil {
		dest = *req.Dest
	}

	return ports.TranslateRequest{
		Text:       text,
		SourceLang: src,
		TargetLang: dest,
	}, nil
}
