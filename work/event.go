package work

import (
	"fmt"
	"time"

	"github.com/fox-one/mixin-sdk-go"
)

const (
	TypeWorkRegistered  = "WORK:REGISTERED"
	TypeMetadataChanged = "METADATA:CHANGED"
)

// Event is one entry of the append-only registration log. A metadata
// change carries the retired pair next to the fresh one, so an indexer
// following the log reconstructs the full metadata history of every
// work without extra storage.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	WorkID    string    `json:"work_id"`
	Caller    string    `json:"caller"`
	Ledger    string    `json:"ledger,omitempty"`
	OldURI    string    `json:"old_uri,omitempty"`
	OldHash   string    `json:"old_hash,omitempty"`
	NewURI    string    `json:"new_uri,omitempty"`
	NewHash   string    `json:"new_hash,omitempty"`
	Tokens    []string  `json:"royalty_tokens,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewWorkRegisteredEvent(w *Work, caller string, at time.Time) *Event {
	return &Event{
		ID:        eventId(w.ID, TypeWorkRegistered, at),
		Type:      TypeWorkRegistered,
		WorkID:    w.ID,
		Caller:    caller,
		Ledger:    w.Ledger,
		NewURI:    w.Metadata.URI,
		NewHash:   w.Metadata.FileHash,
		Tokens:    w.RoyaltyRightsTokens(),
		CreatedAt: at,
	}
}

func NewMetadataChangedEvent(workId, caller string, old, next Metadata, at time.Time) *Event {
	return &Event{
		ID:        eventId(workId, TypeMetadataChanged, at),
		Type:      TypeMetadataChanged,
		WorkID:    workId,
		Caller:    caller,
		OldURI:    old.URI,
		OldHash:   old.FileHash,
		NewURI:    next.URI,
		NewHash:   next.FileHash,
		CreatedAt: at,
	}
}

func eventId(workId, typ string, at time.Time) string {
	return mixin.UniqueConversationID(workId, fmt.Sprintf("%s:%d", typ, at.UnixNano()))
}
