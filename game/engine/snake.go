package engine

// Snake is the ordered body of the snake. The front of the slice is the
// tail and the back is the head.
type Snake []Position

// Len returns the number of segments
func (s Snake) Len() int {
	return len(s)
}

// Head returns the last segment. It panics on an empty snake, which can
// only happen through a broken state transition.
func (s Snake) Head() Position {
	if len(s) == 0 {
		panic("engine: head of empty snake")
	}
	return s[len(s)-1]
}

// Tail returns the first segment
func (s Snake) Tail() Position {
	if len(s) == 0 {
		panic("engine: tail of empty snake")
	}
	return s[0]
}

// Body returns every segment except the head
func (s Snake) Body() []Position {
	if len(s) == 0 {
		return nil
	}
	return s[:len(s)-1]
}

// PushBack appends a new head
func (s *Snake) PushBack(p Position) {
	*s = append(*s, p)
}

// PushFront prepends a new tail
func (s *Snake) PushFront(p Position) {
	*s = append(Snake{p}, *s...)
}

// PopFront removes and returns the tail
func (s *Snake) PopFront() Position {
	if len(*s) == 0 {
		panic("engine: pop from empty snake")
	}
	tail := (*s)[0]
	*s = (*s)[1:]
	return tail
}

// Contains reports whether any segment occupies p
func (s Snake) Contains(p Position) bool {
	for _, part := range s {
		if part == p {
			return true
		}
	}
	return false
}

// Clone returns an independent copy
func (s Snake) Clone() Snake {
	out := make(Snake, len(s))
	copy(out, s)
	return out
}
