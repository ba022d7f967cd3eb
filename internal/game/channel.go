package game

// Subscription identifies a registered subscriber so it can be removed later.
type Subscription uint64

// StimulusPublisher is the only view stimulus producers get of the channel.
type StimulusPublisher interface {
	Publish(magnitude float64)
}

type subscriber[T any] struct {
	id Subscription
	fn func(T)
}

// Channel is a synchronous many-producer broadcast. Publish delivers to every
// subscriber registered at call time, in registration order. Not safe for
// concurrent use; the simulation is single-threaded.
type Channel[T any] struct {
	subs   []subscriber[T]
	nextID Subscription
}

// NewChannel creates an empty channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Subscribe registers fn and returns its handle. A nil fn is ignored and
// yields the zero handle.
func (c *Channel[T]) Subscribe(fn func(T)) Subscription {
	if fn == nil {
		return 0
	}
	c.nextID++
	c.subs = append(c.subs, subscriber[T]{id: c.nextID, fn: fn})
	return c.nextID
}

// Unsubscribe removes the subscriber behind id. Unknown handles are ignored.
func (c *Channel[T]) Unsubscribe(id Subscription) {
	for i, s := range c.subs {
		if s.id == id {
			// Fresh slice so an in-flight Publish keeps its own copy intact.
			kept := make([]subscriber[T], 0, len(c.subs)-1)
			kept = append(kept, c.subs[:i]...)
			kept = append(kept, c.subs[i+1:]...)
			c.subs = kept
			return
		}
	}
}

// Publish delivers v to the current subscribers. With none, v is dropped.
func (c *Channel[T]) Publish(v T) {
	if len(c.subs) == 0 {
		return
	}
	snapshot := make([]subscriber[T], len(c.subs))
	copy(snapshot, c.subs)
	for _, s := range snapshot {
		s.fn(v)
	}
}

// Len returns the number of registered subscribers.
func (c *Channel[T]) Len() int {
	return len(c.subs)
}

// StimulusChannel carries discrete detection increments.
type StimulusChannel = Channel[float64]

// NewStimulusChannel creates the channel producers publish into.
func NewStimulusChannel() *StimulusChannel {
	return NewChannel[float64]()
}
