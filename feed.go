package main

import (
	"context"
	"encoding/json"

	"github.com/MixinNetwork/ipo/work"
	"github.com/MixinNetwork/mixin/crypto"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/nats-io/nats.go"
)

// LogFeed writes every drained event to the daemon log. It never
// fails, so it never stalls the checkpoint.
type LogFeed struct{}

func (lf *LogFeed) PublishEvent(ctx context.Context, evt *work.Event) error {
	logger.Printf("event %s %s work %s caller %s\n", evt.ID, evt.Type, evt.WorkID, evt.Caller)
	return nil
}

// FeedWorker publishes each drained event as JSON on a NATS subject,
// the off-chain side of the notification requirement. Indexers
// following the subject reconstruct the full metadata history of every
// work from the events alone.
type FeedWorker struct {
	conn    *nats.Conn
	subject string
}

func NewFeedWorker(url, subject string) (*FeedWorker, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = "ipo.events"
	}
	return &FeedWorker{
		conn:    conn,
		subject: subject,
	}, nil
}

func (fw *FeedWorker) PublishEvent(ctx context.Context, evt *work.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	err = fw.conn.Publish(fw.subject, body)
	if err != nil {
		eventsPublishErrorsTotal.Inc()
		return err
	}
	receipt := crypto.NewHash(body)
	logger.Verbosef("FeedWorker.PublishEvent(%s) => %s\n", evt.ID, receipt)
	eventsPublishedTotal.Inc()
	return nil
}

func (fw *FeedWorker) Close() {
	fw.conn.Close()
}
