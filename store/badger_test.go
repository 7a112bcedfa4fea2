package store

import (
	"context"
	"testing"
	"time"

	"github.com/MixinNetwork/ipo/asset"
	"github.com/MixinNetwork/ipo/work"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *BadgerStore {
	bs, err := OpenBadger(context.Background(), t.TempDir())
	require.Nil(t, err)
	t.Cleanup(func() { bs.Close() })
	return bs
}

func testRegister(t *testing.T, bs *BadgerStore, ledger string, at time.Time) *work.Work {
	registrar := work.NewRegistrar(bs, work.GuardLedgerOnly)
	w, err := registrar.Register(context.Background(), &work.RegistrationRequest{
		Ledger:   ledger,
		Metadata: work.Metadata{URI: "ipfs://abc", FileHash: "h1"},
	}, at)
	require.Nil(t, err)
	return w
}

func TestWorkReadAfterWrite(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	at := time.Unix(1660000000, 0)
	w := testRegister(t, bs, "L", at)
	require.Len(w.RoyaltyTokens, 2)

	stored, err := bs.ReadWork(w.ID)
	require.Nil(err)
	require.Equal(w.ID, stored.ID)
	require.Equal("L", stored.WorkLedger())
	require.Equal(work.Metadata{URI: "ipfs://abc", FileHash: "h1"}, stored.WorkMetadata())
	require.Equal(w.RoyaltyTokens, stored.RoyaltyRightsTokens())

	missing, err := bs.ReadWork("77e2f9c8-17a2-4f62-9b19-bcf08e3a2cd1")
	require.Nil(err)
	require.Nil(missing)
}

func TestDuplicateRegistration(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	at := time.Unix(1660000000, 0)
	w := testRegister(t, bs, "L", at)

	registrar := work.NewRegistrar(bs, work.GuardLedgerOnly)
	_, err := registrar.Register(context.Background(), &work.RegistrationRequest{
		WorkID:   w.ID,
		Ledger:   "impostor",
		Metadata: work.Metadata{URI: "ipfs://xyz", FileHash: "h9"},
	}, at.Add(time.Second))
	require.ErrorIs(err, work.ErrWorkExists)

	stored, err := bs.ReadWork(w.ID)
	require.Nil(err)
	require.Equal("L", stored.WorkLedger())
	events, err := bs.ListWorkEvents(w.ID, 0)
	require.Nil(err)
	require.Len(events, 1)
}

func TestUpdateWorkMetadata(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	at := time.Unix(1660000000, 0)
	w := testRegister(t, bs, "L", at)

	next := work.Metadata{URI: "ipfs://def", FileHash: "h2"}
	evt, err := bs.UpdateWorkMetadata(w.ID, "L", next, at.Add(time.Second))
	require.Nil(err)
	require.Equal(work.TypeMetadataChanged, evt.Type)
	require.Equal("ipfs://abc", evt.OldURI)
	require.Equal("h1", evt.OldHash)
	require.Equal("ipfs://def", evt.NewURI)
	require.Equal("h2", evt.NewHash)

	stored, err := bs.ReadWork(w.ID)
	require.Nil(err)
	require.Equal(next, stored.WorkMetadata())

	evt, err = bs.UpdateWorkMetadata("77e2f9c8-17a2-4f62-9b19-bcf08e3a2cd1", "L", next, at.Add(2*time.Second))
	require.Nil(err)
	require.Nil(evt)
}

func TestUpdateWorkMetadataDenied(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	at := time.Unix(1660000000, 0)
	w := testRegister(t, bs, "L", at)

	evt, err := bs.UpdateWorkMetadata(w.ID, "mallory", work.Metadata{URI: "ipfs://bad", FileHash: "hx"}, at.Add(time.Second))
	require.ErrorIs(err, work.ErrMutationDenied)
	require.Nil(evt)

	stored, err := bs.ReadWork(w.ID)
	require.Nil(err)
	require.Equal(work.Metadata{URI: "ipfs://abc", FileHash: "h1"}, stored.WorkMetadata())
	events, err := bs.ListWorkEvents(w.ID, 0)
	require.Nil(err)
	require.Len(events, 1)
}

func TestEventLogOrdering(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	at := time.Unix(1660000000, 0)
	w := testRegister(t, bs, "L", at)
	for i := 1; i <= 3; i++ {
		next := work.Metadata{URI: "ipfs://def", FileHash: "h2"}
		_, err := bs.UpdateWorkMetadata(w.ID, "L", next, at.Add(time.Duration(i)*time.Second))
		require.Nil(err)
	}

	events, err := bs.ListEvents(time.Time{}, 100)
	require.Nil(err)
	require.Len(events, 4)
	require.Equal(work.TypeWorkRegistered, events[0].Type)
	for i := 1; i < len(events); i++ {
		require.True(events[i].CreatedAt.After(events[i-1].CreatedAt))
	}

	// resume after a checkpoint
	events, err = bs.ListEvents(events[1].CreatedAt, 100)
	require.Nil(err)
	require.Len(events, 2)

	events, err = bs.ListEvents(time.Time{}, 2)
	require.Nil(err)
	require.Len(events, 2)
}

func TestAssetTransfer(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	at := time.Unix(1660000000, 0)
	w := testRegister(t, bs, "L", at)
	tid := w.RoyaltyTokens[0]

	token, err := bs.ReadAsset(tid)
	require.Nil(err)
	require.Equal(work.CategoryComposition, token.Name)
	supply := token.Supply

	balance, err := bs.ReadAssetBalance(tid, "L")
	require.Nil(err)
	require.True(balance.Equal(supply))

	amount := decimal.New(100, 0)
	err = bs.TransferAsset(tid, "L", "investor", amount)
	require.Nil(err)
	lb, err := bs.ReadAssetBalance(tid, "L")
	require.Nil(err)
	ib, err := bs.ReadAssetBalance(tid, "investor")
	require.Nil(err)
	require.True(lb.Equal(supply.Sub(amount)))
	require.True(ib.Equal(amount))
	require.True(lb.Add(ib).Equal(supply))

	err = bs.TransferAsset(tid, "investor", "L", supply)
	require.ErrorIs(err, asset.ErrInsufficientBalance)
	err = bs.TransferAsset(tid, "L", "investor", decimal.Zero)
	require.ErrorIs(err, asset.ErrInvalidAmount)
}

func TestDeedTransfer(t *testing.T) {
	require := require.New(t)
	bs := testStore(t)

	at := time.Unix(1660000000, 0)
	w := testRegister(t, bs, "L", at)

	deed, err := bs.ReadDeed(w.ID)
	require.Nil(err)
	require.Equal("L", deed.Holder)

	err = bs.TransferDeed(w.ID, "mallory", "fence")
	require.ErrorIs(err, asset.ErrNotHolder)

	err = bs.TransferDeed(w.ID, "L", "buyer")
	require.Nil(err)
	deed, err = bs.ReadDeed(w.ID)
	require.Nil(err)
	require.Equal("buyer", deed.Holder)

	// the work record itself carries no owner, the deed does
	stored, err := bs.ReadWork(w.ID)
	require.Nil(err)
	require.Equal("L", stored.WorkLedger())
}
