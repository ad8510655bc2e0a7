// README: Text-generation provider interface and vendor failure kinds.
package ai

import (
	"context"
	"errors"
)

// TextGenerator issues a single generation attempt against an external LLM
// vendor. Implementations enforce a request timeout and never retry; retry
// policy belongs to the caller so failure kinds stay attributable.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Vendor failure kinds. The three network-side kinds are distinguished because
// they drive different user messaging; ErrCredentialsMissing is returned before
// any network attempt is made.
var (
	ErrVendorUnreachable  = errors.New("generation vendor unreachable")
	ErrVendorAuthFailed   = errors.New("generation vendor rejected credentials")
	ErrVendorRejected     = errors.New("generation vendor rejected request")
	ErrCredentialsMissing = errors.New("generation credentials not configured")
)
