// Package book provides a fixed-capacity, append-only list of chapters and a
// forward-only cursor over it.
package book

import (
	"errors"
	"fmt"

	"patternkit/internal/sink"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be > 0")
	// ErrOutOfRange is returned by Cursor.Next once the cursor is exhausted.
	ErrOutOfRange = errors.New("cursor exhausted")
)

const msgFull = "Книга полна, невозможно добавить главу: "

// Book stores up to Cap() chapters in insertion order.
//
// Not safe for concurrent use.
type Book struct {
	out      sink.Sink
	chapters []string // len == stored count, cap == capacity
}

func New(capacity int, out sink.Sink) (*Book, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, capacity)
	}
	return &Book{
		out:      sink.OrDiscard(out),
		chapters: make([]string, 0, capacity),
	}, nil
}

func (b *Book) Len() int { return len(b.chapters) }
func (b *Book) Cap() int { return cap(b.chapters) }

// AddChapter appends text if there is room. A full book reports the rejected
// chapter and returns false.
func (b *Book) AddChapter(text string) bool {
	if len(b.chapters) >= cap(b.chapters) {
		b.out.Emit(msgFull + text)
		return false
	}
	b.chapters = append(b.chapters, text)
	return true
}

// Iterator returns a cursor over the chapters stored right now. Chapters
// added later are not visible to it.
func (b *Book) Iterator() *Cursor {
	return &Cursor{chapters: b.chapters[:len(b.chapters):len(b.chapters)]}
}
