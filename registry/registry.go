package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/MixinNetwork/ipo/asset"
	"github.com/MixinNetwork/ipo/work"
	"github.com/shopspring/decimal"
)

// Registry is the host platform of the registration interface: it
// orders every mutation behind one lock and stamps each with the
// persisted clock, so operations on the same work execute atomically
// and serially.
type Registry struct {
	mutex sync.Mutex

	store      Store
	clock      *Clock
	registrar  *work.Registrar
	publishers []Publisher

	name  string
	batch int
}

func Build(ctx context.Context, store Store, conf *Configuration) (*Registry, error) {
	if conf.Registry.Name == "" {
		return nil, fmt.Errorf("registry without a name")
	}
	clock, err := NewClock(store)
	if err != nil {
		return nil, err
	}
	guard := work.GuardLedgerOnly
	if conf.Registry.OpenMutation {
		guard = work.GuardOpen
	}
	batch := conf.Feed.Batch
	if batch <= 0 {
		batch = 100
	}
	return &Registry{
		store:     store,
		clock:     clock,
		registrar: work.NewRegistrar(store, guard),
		name:      conf.Registry.Name,
		batch:     batch,
	}, nil
}

func (r *Registry) AddPublisher(p Publisher) {
	r.publishers = append(r.publishers, p)
}

func (r *Registry) RegisterWork(ctx context.Context, req *work.RegistrationRequest) (*work.Work, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.registrar.Register(ctx, req, r.clock.Now())
}

func (r *Registry) GetWork(id string) (*work.Work, error) {
	return r.store.ReadWork(id)
}

func (r *Registry) ChangeWorkMetadata(ctx context.Context, id, caller string, next work.Metadata) (*work.Event, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.store.UpdateWorkMetadata(id, caller, next, r.clock.Now())
}

func (r *Registry) ListWorkEvents(id string, limit int) ([]*work.Event, error) {
	return r.store.ListWorkEvents(id, limit)
}

func (r *Registry) GetAsset(id string) (*asset.RightsToken, error) {
	return r.store.ReadAsset(id)
}

func (r *Registry) AssetBalance(id, holder string) (decimal.Decimal, error) {
	return r.store.ReadAssetBalance(id, holder)
}

func (r *Registry) TransferAsset(ctx context.Context, id, from, to string, amount decimal.Decimal) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.store.TransferAsset(id, from, to, amount)
}

func (r *Registry) GetDeed(tokenId string) (*asset.Deed, error) {
	return r.store.ReadDeed(tokenId)
}

func (r *Registry) TransferDeed(ctx context.Context, tokenId, from, to string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.store.TransferDeed(tokenId, from, to)
}
