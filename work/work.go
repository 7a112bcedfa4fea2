package work

import (
	"errors"
	"time"
)

const (
	GuardLedgerOnly = 10
	GuardOpen       = 11
)

var (
	ErrMutationDenied      = errors.New("metadata mutation denied")
	ErrWorkExists          = errors.New("work already registered")
	ErrInvalidRegistration = errors.New("invalid registration request")
)

// Work is the canonical record of a registered intellectual-property
// asset. ID and Ledger never change after registration, and the
// royalty token list has no mutating operation at all. The metadata
// pair is the single mutable dimension.
type Work struct {
	ID            string
	Metadata      Metadata
	Ledger        string
	RoyaltyTokens []string
	Guard         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var (
	_ Registration  = (*Work)(nil)
	_ Introspective = (*Work)(nil)
)

func (w *Work) RoyaltyRightsTokens() []string {
	tokens := make([]string, len(w.RoyaltyTokens))
	copy(tokens, w.RoyaltyTokens)
	return tokens
}

func (w *Work) WorkMetadata() Metadata {
	return w.Metadata
}

func (w *Work) MetadataURI() string {
	return w.Metadata.URI
}

func (w *Work) MetadataHash() string {
	return w.Metadata.FileHash
}

func (w *Work) WorkLedger() string {
	return w.Ledger
}

// ChangeMetadata swaps the stored pair for next and returns the
// notification event carrying both the retired and the fresh pair.
// With GuardLedgerOnly any caller other than the ledger is denied and
// the work is left untouched.
func (w *Work) ChangeMetadata(caller string, next Metadata) (*Event, error) {
	return w.ApplyMetadata(caller, next, time.Now())
}

// ApplyMetadata is ChangeMetadata with an explicit timestamp, so the
// persistence layer stamps the swap with the registry clock instead of
// the wall clock.
func (w *Work) ApplyMetadata(caller string, next Metadata, at time.Time) (*Event, error) {
	if w.Guard != GuardOpen && caller != w.Ledger {
		return nil, ErrMutationDenied
	}
	old := w.Metadata
	w.Metadata = next
	w.UpdatedAt = at
	return NewMetadataChangedEvent(w.ID, caller, old, next, at), nil
}

func (w *Work) Supports(c Capability) bool {
	return c.Valid()
}

func (w *Work) Capabilities() []Capability {
	return []Capability{
		CapabilityRoyaltyTokens,
		CapabilityMetadata,
		CapabilityMetadataUpdate,
		CapabilityLedger,
	}
}
