package store

import (
	"time"

	"github.com/MixinNetwork/ipo/asset"
	"github.com/MixinNetwork/ipo/work"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const prefixWorkPayload = "WORK:PAYLOAD:"

// WriteWork records a freshly registered work: the work payload, its
// royalty tokens with supply credited to the ledger, the deed held by
// the registrant and the creation event, all in one badger update.
// A taken work id fails the whole write with work.ErrWorkExists.
func (bs *BadgerStore) WriteWork(w *work.Work, tokens []*asset.RightsToken, deed *asset.Deed, evt *work.Event, at time.Time) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readWork(txn, w.ID)
		if err != nil {
			return err
		} else if old != nil {
			return work.ErrWorkExists
		}

		for _, token := range tokens {
			err = bs.writeAsset(txn, token)
			if err != nil {
				return err
			}
			err = bs.writeAssetBalance(txn, token.ID, w.Ledger, token.Supply)
			if err != nil {
				return err
			}
		}
		err = bs.writeDeed(txn, deed)
		if err != nil {
			return err
		}

		key := []byte(prefixWorkPayload + w.ID)
		err = txn.Set(key, common.MsgpackMarshalPanic(w))
		if err != nil {
			return err
		}
		return bs.writeEvent(txn, evt)
	})
}

func (bs *BadgerStore) ReadWork(id string) (*work.Work, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readWork(txn, id)
}

// UpdateWorkMetadata swaps the metadata pair of a work and appends the
// change event in one badger update, so the state a reader observes
// right after the call always matches the new fields of the event.
func (bs *BadgerStore) UpdateWorkMetadata(id, caller string, next work.Metadata, at time.Time) (*work.Event, error) {
	var evt *work.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		w, err := bs.readWork(txn, id)
		if err != nil || w == nil {
			return err
		}
		evt, err = w.ApplyMetadata(caller, next, at)
		if err != nil {
			return err
		}

		key := []byte(prefixWorkPayload + w.ID)
		err = txn.Set(key, common.MsgpackMarshalPanic(w))
		if err != nil {
			return err
		}
		return bs.writeEvent(txn, evt)
	})
	if err != nil {
		return nil, err
	}
	return evt, nil
}

func (bs *BadgerStore) readWork(txn *badger.Txn, id string) (*work.Work, error) {
	key := []byte(prefixWorkPayload + id)
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
	var w work.Work
	err = common.MsgpackUnmarshal(val, &w)
	return &w, err
}
