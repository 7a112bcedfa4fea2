package store

import (
	"fmt"

	"github.com/MixinNetwork/ipo/asset"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
)

const (
	prefixAssetPayload = "ASSET:PAYLOAD:"
	prefixAssetBalance = "ASSET:BALANCE:"
	prefixDeedPayload  = "DEED:PAYLOAD:"
)

func (bs *BadgerStore) ReadAsset(id string) (*asset.RightsToken, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readAsset(txn, id)
}

func (bs *BadgerStore) ReadAssetBalance(id, holder string) (decimal.Decimal, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readAssetBalance(txn, id, holder)
}

// TransferAsset moves amount of a royalty token between holders in one
// badger update. Supply is conserved: the pair of balance writes
// commits together or not at all.
func (bs *BadgerStore) TransferAsset(id, from, to string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return asset.ErrInvalidAmount
	}
	return bs.db.Update(func(txn *badger.Txn) error {
		token, err := bs.readAsset(txn, id)
		if err != nil {
			return err
		} else if token == nil {
			return fmt.Errorf("no asset %s", id)
		}
		sb, err := bs.readAssetBalance(txn, id, from)
		if err != nil {
			return err
		}
		if sb.Cmp(amount) < 0 {
			return asset.ErrInsufficientBalance
		}
		rb, err := bs.readAssetBalance(txn, id, to)
		if err != nil {
			return err
		}
		err = bs.writeAssetBalance(txn, id, from, sb.Sub(amount))
		if err != nil {
			return err
		}
		return bs.writeAssetBalance(txn, id, to, rb.Add(amount))
	})
}

func (bs *BadgerStore) ReadDeed(tokenId string) (*asset.Deed, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readDeed(txn, tokenId)
}

func (bs *BadgerStore) TransferDeed(tokenId, from, to string) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		deed, err := bs.readDeed(txn, tokenId)
		if err != nil {
			return err
		} else if deed == nil {
			return fmt.Errorf("no deed %s", tokenId)
		}
		if deed.Holder != from {
			return asset.ErrNotHolder
		}
		deed.Holder = to
		return bs.writeDeed(txn, deed)
	})
}

func (bs *BadgerStore) writeAsset(txn *badger.Txn, token *asset.RightsToken) error {
	key := []byte(prefixAssetPayload + token.ID)
	return txn.Set(key, common.MsgpackMarshalPanic(token))
}

func (bs *BadgerStore) readAsset(txn *badger.Txn, id string) (*asset.RightsToken, error) {
	key := []byte(prefixAssetPayload + id)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var token asset.RightsToken
	err = common.MsgpackUnmarshal(val, &token)
	return &token, err
}

func (bs *BadgerStore) writeAssetBalance(txn *badger.Txn, id, holder string, amount decimal.Decimal) error {
	key := []byte(prefixAssetBalance + id + ":" + holder)
	return txn.Set(key, []byte(amount.String()))
}

func (bs *BadgerStore) readAssetBalance(txn *badger.Txn, id, holder string) (decimal.Decimal, error) {
	key := []byte(prefixAssetBalance + id + ":" + holder)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return decimal.Zero, nil
	} else if err != nil {
		return decimal.Zero, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(string(val))
}

func (bs *BadgerStore) writeDeed(txn *badger.Txn, deed *asset.Deed) error {
	key := []byte(prefixDeedPayload + deed.TokenID)
	return txn.Set(key, common.MsgpackMarshalPanic(deed))
}

func (bs *BadgerStore) readDeed(txn *badger.Txn, tokenId string) (*asset.Deed, error) {
	key := []byte(prefixDeedPayload + tokenId)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var deed asset.Deed
	err = common.MsgpackUnmarshal(val, &deed)
	return &deed, err
}
