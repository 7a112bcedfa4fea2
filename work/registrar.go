package work

import (
	"context"
	"fmt"
	"time"

	"github.com/MixinNetwork/ipo/asset"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

const (
	CategoryComposition = "composition"
	CategoryRecording   = "recording"
)

// DefaultShareSupply is the royalty share circulation a category gets
// when the registration names none.
var DefaultShareSupply = decimal.New(10000, 0)

type RoyaltySpec struct {
	Category string          `json:"category"`
	Symbol   string          `json:"symbol,omitempty"`
	Supply   decimal.Decimal `json:"supply,omitempty"`
}

type RegistrationRequest struct {
	WorkID   string        `json:"work_id,omitempty"`
	Ledger   string        `json:"ledger"`
	Caller   string        `json:"caller,omitempty"`
	Metadata Metadata      `json:"metadata"`
	Royalty  []RoyaltySpec `json:"royalty,omitempty"`
}

// Registrar mints works. Each registration yields the work record, one
// royalty-rights token per category, the ownership deed held by the
// registrant, and the creation event, all written in one transaction.
type Registrar struct {
	store Store
	guard int
}

func NewRegistrar(store Store, guard int) *Registrar {
	switch guard {
	case GuardLedgerOnly, GuardOpen:
	default:
		panic(guard)
	}
	return &Registrar{store: store, guard: guard}
}

func (r *Registrar) Register(ctx context.Context, req *RegistrationRequest, at time.Time) (*Work, error) {
	if req.Ledger == "" {
		return nil, fmt.Errorf("%w: no ledger reference", ErrInvalidRegistration)
	}
	workId := req.WorkID
	if workId == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		workId = id.String()
	} else if wid, err := uuid.FromString(workId); err != nil || wid.String() == uuid.Nil.String() {
		return nil, fmt.Errorf("%w: work id %s", ErrInvalidRegistration, workId)
	}
	caller := req.Caller
	if caller == "" {
		caller = req.Ledger
	}

	specs := req.Royalty
	if specs == nil {
		specs = []RoyaltySpec{
			{Category: CategoryComposition},
			{Category: CategoryRecording},
		}
	}
	tokens := make([]*asset.RightsToken, 0, len(specs))
	refs := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Category == "" {
			return nil, fmt.Errorf("%w: royalty category without a name", ErrInvalidRegistration)
		}
		supply := spec.Supply
		if supply.Sign() == 0 {
			supply = DefaultShareSupply
		}
		token, err := asset.NewRightsToken(TokenID(workId, spec.Category), spec.Symbol, spec.Category, supply)
		if err != nil {
			return nil, err
		}
		token.CreatedAt = at
		tokens = append(tokens, token)
		refs = append(refs, token.ID)
	}

	w := &Work{
		ID:            workId,
		Metadata:      req.Metadata,
		Ledger:        req.Ledger,
		RoyaltyTokens: refs,
		Guard:         r.guard,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	deed := &asset.Deed{
		TokenID:   workId,
		Holder:    req.Ledger,
		CreatedAt: at,
	}
	evt := NewWorkRegisteredEvent(w, caller, at)
	err := r.store.WriteWork(w, tokens, deed, evt, at)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// TokenID derives the royalty token identity for one category of a
// work. The derivation is deterministic, so registering the same work
// twice collides instead of minting a second claim on the same income.
func TokenID(workId, category string) string {
	return mixin.UniqueConversationID(workId, "royalty:"+category)
}
