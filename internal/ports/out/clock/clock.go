package clock

import "time"

// Clock stamps family records and idempotency entries.
type Clock interface {
	Now() time.Time
}
