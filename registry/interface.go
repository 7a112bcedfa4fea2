package registry

import (
	"context"
	"time"

	"github.com/MixinNetwork/ipo/asset"
	"github.com/MixinNetwork/ipo/work"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	ListEvents(after time.Time, limit int) ([]*work.Event, error)

	work.Store
	asset.Store
}

// Publisher receives every event drained from the log, in log order.
// The feed checkpoint only advances past an event after every
// publisher accepted it.
type Publisher interface {
	PublishEvent(ctx context.Context, evt *work.Event) error
}
