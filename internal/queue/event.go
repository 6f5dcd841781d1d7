// Package queue defines message payloads exchanged over the message broker.
package queue

// SeenUpdatedQueue is the durable queue carrying SeenUpdatedEvent.
const SeenUpdatedQueue = "catalog.seen_updated"

// SeenUpdatedEvent is published after seen flags were flushed to the sheet.
// It carries enough detail for consumers to log or notify without reading
// the sheet again.
type SeenUpdatedEvent struct {
	EventID   string       `json:"event_id"`
	UserID    uint64       `json:"user_id"`
	Changes   []SeenChange `json:"changes"`
	FlushedAt string       `json:"flushed_at"`
}

// SeenChange is one flushed cell.
type SeenChange struct {
	RowID  int    `json:"row_id"`
	Movie  string `json:"movie"`
	Column string `json:"column"`
	Cell   string `json:"cell"`
	Value  bool   `json:"value"`
}
