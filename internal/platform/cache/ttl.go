package cache

import "time"

// TTLPolicy chooses how long an entry written at now stays cached.
type TTLPolicy func(now time.Time) time.Duration

// FixedTTL always returns d.
func FixedTTL(d time.Duration) TTLPolicy {
	return func(time.Time) time.Duration { return d }
}

// SessionClock reports whether the market session is open.
type SessionClock interface {
	IsOpen(t time.Time) bool
}

// SessionTTL keeps entries for open while the session is running and for
// closed otherwise, since prices do not move outside the session.
func SessionTTL(clock SessionClock, open, closed time.Duration) TTLPolicy {
	return func(now time.Time) time.Duration {
		if clock == nil || clock.IsOpen(now) {
			return open
		}
		return closed
	}
}
