package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/MixinNetwork/ipo/store"
	"github.com/MixinNetwork/ipo/work"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testConfiguration() *Configuration {
	var conf Configuration
	conf.Registry.Name = "ipo-test"
	conf.Feed.Batch = 100
	return &conf
}

func testRegistry(t *testing.T) (*Registry, *store.BadgerStore) {
	bs, err := store.OpenBadger(context.Background(), t.TempDir())
	require.Nil(t, err)
	t.Cleanup(func() { bs.Close() })
	reg, err := Build(context.Background(), bs, testConfiguration())
	require.Nil(t, err)
	return reg, bs
}

type capturePublisher struct {
	events []*work.Event
	fail   bool
}

func (cp *capturePublisher) PublishEvent(ctx context.Context, evt *work.Event) error {
	if cp.fail {
		return fmt.Errorf("publisher down")
	}
	cp.events = append(cp.events, evt)
	return nil
}

func TestRegistryOperations(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	reg, _ := testRegistry(t)

	w, err := reg.RegisterWork(ctx, &work.RegistrationRequest{
		Ledger:   "L",
		Metadata: work.Metadata{URI: "ipfs://abc", FileHash: "h1"},
	})
	require.Nil(err)
	require.Len(w.RoyaltyTokens, 2)

	stored, err := reg.GetWork(w.ID)
	require.Nil(err)
	require.Equal(work.Metadata{URI: "ipfs://abc", FileHash: "h1"}, stored.WorkMetadata())

	evt, err := reg.ChangeWorkMetadata(ctx, w.ID, "L", work.Metadata{URI: "ipfs://def", FileHash: "h2"})
	require.Nil(err)
	require.Equal("ipfs://abc", evt.OldURI)
	require.Equal("ipfs://def", evt.NewURI)

	stored, err = reg.GetWork(w.ID)
	require.Nil(err)
	require.Equal(work.Metadata{URI: "ipfs://def", FileHash: "h2"}, stored.WorkMetadata())
	require.Equal(stored.WorkMetadata().URI, evt.NewURI)
	require.Equal(stored.WorkMetadata().FileHash, evt.NewHash)

	events, err := reg.ListWorkEvents(w.ID, 0)
	require.Nil(err)
	require.Len(events, 2)
	require.Equal(work.TypeWorkRegistered, events[0].Type)
	require.Equal(work.TypeMetadataChanged, events[1].Type)
}

func TestRegistryAssetPassthrough(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	reg, _ := testRegistry(t)

	w, err := reg.RegisterWork(ctx, &work.RegistrationRequest{
		Ledger:   "L",
		Metadata: work.Metadata{URI: "ipfs://abc", FileHash: "h1"},
	})
	require.Nil(err)

	tid := w.RoyaltyTokens[1]
	token, err := reg.GetAsset(tid)
	require.Nil(err)
	require.Equal(work.CategoryRecording, token.Name)

	err = reg.TransferAsset(ctx, tid, "L", "investor", decimal.New(42, 0))
	require.Nil(err)
	balance, err := reg.AssetBalance(tid, "investor")
	require.Nil(err)
	require.True(balance.Equal(decimal.New(42, 0)))

	deed, err := reg.GetDeed(w.ID)
	require.Nil(err)
	require.Equal("L", deed.Holder)
	err = reg.TransferDeed(ctx, w.ID, "L", "buyer")
	require.Nil(err)
	deed, err = reg.GetDeed(w.ID)
	require.Nil(err)
	require.Equal("buyer", deed.Holder)
}

func TestFeedDrain(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	reg, _ := testRegistry(t)

	w, err := reg.RegisterWork(ctx, &work.RegistrationRequest{
		Ledger:   "L",
		Metadata: work.Metadata{URI: "ipfs://abc", FileHash: "h1"},
	})
	require.Nil(err)
	_, err = reg.ChangeWorkMetadata(ctx, w.ID, "L", work.Metadata{URI: "ipfs://def", FileHash: "h2"})
	require.Nil(err)

	cp := &capturePublisher{}
	reg.AddPublisher(cp)
	count := reg.drainEvents(ctx, 100)
	require.Equal(2, count)
	require.Len(cp.events, 2)
	require.Equal(work.TypeWorkRegistered, cp.events[0].Type)
	require.Equal(work.TypeMetadataChanged, cp.events[1].Type)

	// checkpoint advanced, nothing to drain again
	count = reg.drainEvents(ctx, 100)
	require.Equal(0, count)
	require.Len(cp.events, 2)

	// new events drain from the checkpoint on
	_, err = reg.ChangeWorkMetadata(ctx, w.ID, "L", work.Metadata{URI: "ipfs://ghi", FileHash: "h3"})
	require.Nil(err)
	count = reg.drainEvents(ctx, 100)
	require.Equal(1, count)
	require.Len(cp.events, 3)
	require.Equal("ipfs://ghi", cp.events[2].NewURI)
}

func TestFeedPublisherFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	reg, _ := testRegistry(t)

	w, err := reg.RegisterWork(ctx, &work.RegistrationRequest{
		Ledger:   "L",
		Metadata: work.Metadata{URI: "ipfs://abc", FileHash: "h1"},
	})
	require.Nil(err)

	cp := &capturePublisher{fail: true}
	reg.AddPublisher(cp)
	count := reg.drainEvents(ctx, 100)
	require.Equal(0, count)

	// checkpoint unmoved, the event is redelivered once the
	// publisher recovers
	cp.fail = false
	count = reg.drainEvents(ctx, 100)
	require.Equal(1, count)
	require.Len(cp.events, 1)
	require.Equal(w.ID, cp.events[0].WorkID)
}

func TestClockMonotonic(t *testing.T) {
	require := require.New(t)
	bs, err := store.OpenBadger(context.Background(), t.TempDir())
	require.Nil(err)
	defer bs.Close()

	clock, err := NewClock(bs)
	require.Nil(err)
	a := clock.Now()
	b := clock.Now()
	require.True(b.After(a))

	// a restarted clock never steps behind the persisted timestamp
	clock, err = NewClock(bs)
	require.Nil(err)
	c := clock.Now()
	require.True(c.After(b))
}
