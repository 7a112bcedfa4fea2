package asset

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Fungible is the slice of an external fungible token standard the
// registration layer relies on: identity, supply, balance and
// transfer. Everything else about such tokens stays with the standard
// that issued them.
type Fungible interface {
	AssetID() string
	AssetSymbol() string
	TotalSupply() decimal.Decimal
	BalanceOf(holder string) (decimal.Decimal, error)
	Transfer(from, to string, amount decimal.Decimal) error
}

// NonFungible is the ownership surface of the external non-fungible
// standard a registered work conforms to.
type NonFungible interface {
	TokenID() string
	Holder() (string, error)
	Transfer(from, to string) error
}

type Store interface {
	ReadAsset(id string) (*RightsToken, error)
	ReadAssetBalance(id, holder string) (decimal.Decimal, error)
	TransferAsset(id, from, to string, amount decimal.Decimal) error

	ReadDeed(tokenId string) (*Deed, error)
	TransferDeed(tokenId, from, to string) error
}

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotHolder           = errors.New("transfer not initiated by holder")
	ErrInvalidAmount       = errors.New("invalid transfer amount")
)
