package cache

// EventType identifies an entry lifecycle event.
type EventType string

const (
	EventPut     EventType = "cache_put"
	EventDeleted EventType = "cache_deleted"
	EventExpired EventType = "cache_expired"
	EventFlushed EventType = "cache_flushed"
)

// Event describes a change to the store. Key is empty for flush events.
type Event struct {
	Type EventType
	Key  string
}

// EventSink receives entry lifecycle events. Publish is called synchronously
// from the operation that produced the event, so implementations should not
// block for long.
type EventSink interface {
	Publish(Event)
}
