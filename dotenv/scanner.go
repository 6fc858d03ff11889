package dotenv

// scanner reads an immutable source one byte at a time.
//
// The cursor is the offset of the last byte consumed and starts at -1, so the
// first call to advance yields the first byte. There is no way to move
// backwards; callers record offset before consuming a run and slice src.
type scanner struct {
	src    string
	cursor int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, cursor: -1}
}

// peek returns the byte after the cursor without consuming it.
func (s *scanner) peek() (byte, bool) {
	if s.eof() {
		return 0, false
	}

	return s.src[s.cursor+1], true
}

// advance consumes and returns the byte after the cursor. Once the input is
// exhausted it keeps returning false without moving.
func (s *scanner) advance() (byte, bool) {
	if s.eof() {
		return 0, false
	}

	s.cursor++

	return s.src[s.cursor], true
}

// offset returns the offset of the next unread byte.
func (s *scanner) offset() int { return s.cursor + 1 }

func (s *scanner) eof() bool { return s.cursor+1 >= len(s.src) }

// slice returns the source consumed since start.
func (s *scanner) slice(start int) string { return s.src[start:s.offset()] }
