package book

import "iter"

// Cursor walks a snapshot of a book once, front to back.
//
// It shares the book's storage; it never copies chapters.
type Cursor struct {
	chapters []string
	pos      int
}

func (c *Cursor) HasNext() bool { return c.pos < len(c.chapters) }

// Next returns the chapter at the cursor and advances. Past the end it
// returns ErrOutOfRange and stays put.
func (c *Cursor) Next() (string, error) {
	if !c.HasNext() {
		return "", ErrOutOfRange
	}
	s := c.chapters[c.pos]
	c.pos++
	return s, nil
}

// All yields the remaining chapters, advancing the cursor as it goes.
// Breaking out of the loop leaves the cursor after the last yielded chapter.
func (c *Cursor) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for c.HasNext() {
			s, _ := c.Next()
			if !yield(s) {
				return
			}
		}
	}
}
