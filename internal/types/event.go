package types

import (
	"fmt"
	"time"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// UserEvent is one line of an import stream and one message on the import
// topic.
type UserEvent struct {
	Op        string `json:"op"`
	User      *User  `json:"user"`
	TimeStamp int64  `json:"ts_ms"`
}

func (e UserEvent) Validate(now time.Time) error {
	if e.User == nil {
		return fmt.Errorf("event has no user")
	}
	if time.UnixMilli(e.TimeStamp).After(now) {
		return fmt.Errorf("event is in the future: %d", e.TimeStamp)
	}
	switch e.Op {
	case OpUpsert:
		return nil
	case OpDelete:
		if e.User.Id == 0 {
			return fmt.Errorf("delete event without user id")
		}
		return nil
	default:
		return fmt.Errorf("unknown op %q", e.Op)
	}
}
