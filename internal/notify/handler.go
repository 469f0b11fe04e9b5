// Package notify implements a chain of notification handlers.
//
// Every handler in the chain is visited for every message: a handler emits
// when the message level meets its threshold and then always forwards to the
// next one. The chain broadcasts with a per-link filter; it never stops at the
// first match, so a critical message reaches the report, email and SMS
// channels alike.
//
// Chains are assembled by the caller with SetNext or Link. A chain must be
// acyclic; SetNext does not check this, Link does.
package notify

import "errors"

var (
	ErrNilHandler = errors.New("nil handler")
	ErrCycle      = errors.New("handler appears twice in chain")
)

// Handler is one link of a notification chain.
//
// Not safe for concurrent use while the chain is being assembled.
type Handler struct {
	threshold Level
	channel   Channel
	next      *Handler
}

func NewHandler(threshold Level, ch Channel) *Handler {
	return &Handler{threshold: threshold, channel: ch}
}

func (h *Handler) Threshold() Level { return h.threshold }
func (h *Handler) Channel() Channel { return h.channel }
func (h *Handler) Next() *Handler   { return h.next }

// SetNext overwrites the forward link. Passing nil ends the chain here.
func (h *Handler) SetNext(next *Handler) { h.next = next }

// Notify dispatches message at level to h and every handler after it, in
// chain order. It returns how many handlers met the threshold.
func (h *Handler) Notify(message string, level Level) int {
	emitted := 0
	for cur := h; cur != nil; cur = cur.next {
		if level.Meets(cur.threshold) {
			if cur.channel != nil {
				cur.channel.Emit(message)
			}
			emitted++
		}
	}
	return emitted
}

// Link chains handlers in the given order and returns the head.
// The last handler's next link is cleared.
func Link(handlers ...*Handler) (*Handler, error) {
	if len(handlers) == 0 {
		return nil, nil
	}
	seen := make(map[*Handler]struct{}, len(handlers))
	for _, h := range handlers {
		if h == nil {
			return nil, ErrNilHandler
		}
		if _, dup := seen[h]; dup {
			return nil, ErrCycle
		}
		seen[h] = struct{}{}
	}
	for i := 0; i < len(handlers)-1; i++ {
		handlers[i].SetNext(handlers[i+1])
	}
	handlers[len(handlers)-1].SetNext(nil)
	return handlers[0], nil
}

// Len counts handlers from h to the end of the chain.
func (h *Handler) Len() int {
	n := 0
	for cur := h; cur != nil; cur = cur.next {
		n++
	}
	return n
}
