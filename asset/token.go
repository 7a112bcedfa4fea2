package asset

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RightsToken is the reference record of one royalty-rights token: a
// fungible claim on one category of royalty income of a single work.
// The owning work stores only the ID; supply and balances live here.
type RightsToken struct {
	ID        string
	Symbol    string
	Name      string
	Supply    decimal.Decimal
	CreatedAt time.Time
}

func NewRightsToken(id, symbol, name string, supply decimal.Decimal) (*RightsToken, error) {
	if id == "" {
		return nil, fmt.Errorf("empty token id")
	}
	if name == "" {
		return nil, fmt.Errorf("empty token name")
	}
	if symbol == "" {
		symbol = strings.ToUpper(name)
	}
	if supply.Sign() <= 0 {
		return nil, fmt.Errorf("invalid token supply %s", supply)
	}
	return &RightsToken{
		ID:     id,
		Symbol: symbol,
		Name:   name,
		Supply: supply,
	}, nil
}

// View binds a token record to a store, yielding the standard surface
// callers program against.
func (t *RightsToken) View(store Store) Fungible {
	return &tokenView{token: t, store: store}
}

type tokenView struct {
	token *RightsToken
	store Store
}

var _ Fungible = (*tokenView)(nil)

func (v *tokenView) AssetID() string {
	return v.token.ID
}

func (v *tokenView) AssetSymbol() string {
	return v.token.Symbol
}

func (v *tokenView) TotalSupply() decimal.Decimal {
	return v.token.Supply
}

func (v *tokenView) BalanceOf(holder string) (decimal.Decimal, error) {
	return v.store.ReadAssetBalance(v.token.ID, holder)
}

func (v *tokenView) Transfer(from, to string, amount decimal.Decimal) error {
	return v.store.TransferAsset(v.token.ID, from, to, amount)
}
