package app

// EventType identifies what a session Event reports.
type EventType int

const (
	// EventViewChanged means the visible rows of the active collection changed.
	EventViewChanged EventType = iota
	// EventCollectionsChanged means a collection was added or its counts moved.
	EventCollectionsChanged
	// EventFilterChanged means the filter preference changed.
	EventFilterChanged
	// EventSaveStarted is sent when BeginSave hands out a job.
	EventSaveStarted
	// EventSaveFinished is sent from FinishSave; Err carries the failure.
	EventSaveFinished
	// EventNotice carries a message the user should see.
	EventNotice
)

func (t EventType) String() string {
	switch t {
	case EventViewChanged:
		return "view-changed"
	case EventCollectionsChanged:
		return "collections-changed"
	case EventFilterChanged:
		return "filter-changed"
	case EventSaveStarted:
		return "save-started"
	case EventSaveFinished:
		return "save-finished"
	case EventNotice:
		return "notice"
	}
	return "unknown"
}

// Event is delivered to session subscribers.
type Event struct {
	Type EventType

	// Visible is TaskListVisible at the time of the event.
	Visible bool
	Message string
	Err     error
}
