package registry

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/MixinNetwork/ipo/work"
	"github.com/MixinNetwork/mixin/logger"
)

const feedCheckpointKey = "events-feed-checkpoint"

// Run drains the event log past the persisted checkpoint and hands
// each event to every publisher, in log order. The checkpoint only
// advances after all publishers accepted the event, so a failing
// publisher sees the event again on the next pass.
func (r *Registry) Run(ctx context.Context) {
	for ctx.Err() == nil {
		count := r.drainEvents(ctx, r.batch)
		if count < r.batch/2 {
			time.Sleep(300 * time.Millisecond)
		}
	}
}

func (r *Registry) drainEvents(ctx context.Context, batch int) int {
	checkpoint, err := r.readFeedCheckpoint()
	if err != nil {
		logger.Printf("registry.readFeedCheckpoint() => %v\n", err)
		time.Sleep(3 * time.Second)
		return 0
	}
	events, err := r.store.ListEvents(checkpoint, batch)
	if err != nil {
		logger.Printf("registry.ListEvents(%s) => %v\n", checkpoint, err)
		time.Sleep(3 * time.Second)
		return 0
	}

	var drained int
	for _, evt := range events {
		err = r.publishEvent(ctx, evt)
		if err != nil {
			logger.Printf("registry.publishEvent(%s) => %v\n", evt.ID, err)
			break
		}
		checkpoint = evt.CreatedAt
		drained += 1
	}

	err = r.writeFeedCheckpoint(checkpoint)
	if err != nil {
		logger.Printf("registry.writeFeedCheckpoint(%s) => %v\n", checkpoint, err)
	}
	return drained
}

func (r *Registry) publishEvent(ctx context.Context, evt *work.Event) error {
	for _, p := range r.publishers {
		err := p.PublishEvent(ctx, evt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) readFeedCheckpoint() (time.Time, error) {
	key := []byte(feedCheckpointKey)
	val, err := r.store.ReadProperty(key)
	if err != nil || len(val) == 0 {
		return time.Time{}, err
	}
	ts := int64(binary.BigEndian.Uint64(val))
	return time.Unix(0, ts), nil
}

func (r *Registry) writeFeedCheckpoint(ckpt time.Time) error {
	val := make([]byte, 8)
	key := []byte(feedCheckpointKey)
	ts := uint64(ckpt.UnixNano())
	binary.BigEndian.PutUint64(val, ts)
	return r.store.WriteProperty(key, val)
}
