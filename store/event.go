package store

import (
	"time"

	"github.com/MixinNetwork/ipo/work"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const (
	prefixEventPayload = "EVENT:PAYLOAD:"
	prefixEventLog     = "EVENT:LOG:"
	prefixEventWork    = "EVENT:WORK:"
)

// The event log is append only under big endian nanosecond keys, one
// global sequence plus a per work index. The registry clock guarantees
// the timestamps strictly increase, so log order is key order.

// ListEvents returns up to limit events with a timestamp after the
// checkpoint, in log order.
func (bs *BadgerStore) ListEvents(after time.Time, limit int) ([]*work.Event, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixEventLog)
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := append([]byte(prefixEventLog), tsToBytes(after.Add(time.Nanosecond))...)
	var events []*work.Event
	for it.Seek(seek); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+8:])
		evt, err := bs.readEvent(txn, id)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

// ListWorkEvents returns the registration and metadata history of one
// work, oldest first.
func (bs *BadgerStore) ListWorkEvents(workId string, limit int) ([]*work.Event, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixEventWork + workId)
	it := txn.NewIterator(opts)
	defer it.Close()

	var events []*work.Event
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+8:])
		evt, err := bs.readEvent(txn, id)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (bs *BadgerStore) writeEvent(txn *badger.Txn, evt *work.Event) error {
	key := []byte(prefixEventPayload + evt.ID)
	err := txn.Set(key, common.MsgpackMarshalPanic(evt))
	if err != nil {
		return err
	}

	key = append([]byte(prefixEventLog), tsToBytes(evt.CreatedAt)...)
	key = append(key, []byte(evt.ID)...)
	err = txn.Set(key, []byte{1})
	if err != nil {
		return err
	}

	key = append([]byte(prefixEventWork+evt.WorkID), tsToBytes(evt.CreatedAt)...)
	key = append(key, []byte(evt.ID)...)
	return txn.Set(key, []byte{1})
}

func (bs *BadgerStore) readEvent(txn *badger.Txn, id string) (*work.Event, error) {
	key := []byte(prefixEventPayload + id)
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var evt work.Event
	err = common.MsgpackUnmarshal(val, &evt)
	return &evt, err
}
