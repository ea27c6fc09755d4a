/*
Package event provides single-threaded observer streams.

Producers publish synchronously from the UI goroutine and every
subscriber runs before Emit returns. There is no buffering and no
goroutine handoff; a stream is just an ordered list of callbacks.
*/
package event

// Stream delivers values synchronously to its subscribers.
//
// The zero Stream is ready to use. All methods must be called from the
// UI goroutine.
type Stream struct {
	subs []*subscription
	seq  int
}

type subscription struct {
	id int
	fn func(v interface{})
}

// Subscribe registers fn and returns a cancel function. Cancelling is
// idempotent and takes effect immediately: a subscriber cancelled during
// an Emit will not see that emission if it has not yet been delivered.
func (s *Stream) Subscribe(fn func(v interface{})) (cancel func()) {
	s.seq++
	sub := &subscription{id: s.seq, fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		for i, existing := range s.subs {
			if existing.id == sub.id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers v to every current subscriber in subscription order.
func (s *Stream) Emit(v interface{}) {
	// Snapshot so subscribers may cancel or subscribe re-entrantly.
	snapshot := make([]*subscription, len(s.subs))
	copy(snapshot, s.subs)
	for _, sub := range snapshot {
		if s.active(sub) {
			sub.fn(v)
		}
	}
}

// Len reports the number of active subscribers.
func (s *Stream) Len() int { return len(s.subs) }

func (s *Stream) active(sub *subscription) bool {
	for _, existing := range s.subs {
		if existing == sub {
			return true
		}
	}
	return false
}
