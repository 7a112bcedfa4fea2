package work

import (
	"time"

	"github.com/MixinNetwork/ipo/asset"
)

// Registration is the capability surface every registered work exposes.
// Creation is the registrar's job and is not part of this surface.
type Registration interface {
	RoyaltyRightsTokens() []string
	WorkMetadata() Metadata
	ChangeMetadata(caller string, next Metadata) (*Event, error)
	WorkLedger() string
}

// Introspective lets callers probe which capability set a work
// implementation carries without depending on its concrete type.
type Introspective interface {
	Supports(c Capability) bool
	Capabilities() []Capability
}

type Store interface {
	WriteWork(w *Work, tokens []*asset.RightsToken, deed *asset.Deed, evt *Event, at time.Time) error
	ReadWork(id string) (*Work, error)
	UpdateWorkMetadata(id, caller string, next Metadata, at time.Time) (*Event, error)
	ListWorkEvents(workId string, limit int) ([]*Event, error)
}

type Capability string

const (
	CapabilityRoyaltyTokens  Capability = "royalty-tokens"
	CapabilityMetadata       Capability = "metadata"
	CapabilityMetadataUpdate Capability = "metadata-update"
	CapabilityLedger         Capability = "ledger"
)

func (c Capability) String() string {
	return string(c)
}

func (c Capability) Valid() bool {
	switch c {
	case CapabilityRoyaltyTokens, CapabilityMetadata, CapabilityMetadataUpdate, CapabilityLedger:
		return true
	}
	return false
}
