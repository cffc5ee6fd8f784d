// Copyright 2021 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scanner

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/lotcheck/lotcheck/lib/syntax/directives"
)

// Scanner is a rune scanner over an in-memory text.
type Scanner struct {
	text string
	path string

	// current contains the current rune
	current    rune
	currentLen int
	pos        int

	// ranges is a stack of open ranges, used to annotate errors
	// with context while parsing.
	ranges []openRange
}

type openRange struct {
	start int
	desc  string
}

// New creates a new Scanner.
func New(text, path string) *Scanner {
	return &Scanner{
		text: text,
		path: path,
	}
}

// Path returns the file path.
func (s *Scanner) Path() string {
	return s.path
}

// Current returns the current rune.
func (s *Scanner) Current() rune {
	return s.current
}

// Offset returns the current offset.
func (s *Scanner) Offset() int {
	return s.pos
}

// Advance reads a rune.
func (s *Scanner) Advance() error {
	s.pos += s.currentLen
	if s.pos == len(s.text) {
		s.current = EOF
		s.currentLen = 0
		return nil
	}
	s.current, s.currentLen = utf8.DecodeRuneInString(s.text[s.pos:])
	if s.current == utf8.RuneError {
		switch s.currentLen {
		case 0:
			return fmt.Errorf("unexpected end of file: %s", s.text[s.pos:])
		case 1:
			return fmt.Errorf("invalid string: %s", s.text[s.pos:])
		}
	}
	return nil
}

// EOF is a rune representing the end of a file
const EOF = rune(0)

// RangeStart opens a new range with the given description.
func (s *Scanner) RangeStart(desc string) {
	s.ranges = append(s.ranges, openRange{start: s.pos, desc: desc})
}

// RangeContinue opens a new range which extends back to the start of
// the enclosing range.
func (s *Scanner) RangeContinue(desc string) {
	start := s.pos
	if len(s.ranges) > 0 {
		start = s.ranges[len(s.ranges)-1].start
	}
	s.ranges = append(s.ranges, openRange{start: start, desc: desc})
}

// RangeEnd closes the innermost open range.
func (s *Scanner) RangeEnd() {
	s.ranges = s.ranges[:len(s.ranges)-1]
}

// Range returns the innermost open range.
func (s *Scanner) Range() directives.Range {
	start := s.pos
	if len(s.ranges) > 0 {
		start = s.ranges[len(s.ranges)-1].start
	}
	return directives.Range{
		Start: start,
		End:   s.pos,
		Path:  s.path,
		Text:  s.text,
	}
}

// Annotate wraps the error with the innermost open range and its
// description.
func (s *Scanner) Annotate(err error) error {
	var desc string
	if len(s.ranges) > 0 {
		desc = s.ranges[len(s.ranges)-1].desc
	}
	return directives.Error{
		Message: desc,
		Range:   s.Range(),
		Wrapped: err,
	}
}

// ReadWhile reads a string while the predicate holds.
func (s *Scanner) ReadWhile(pred func(r rune) bool) (directives.Range, error) {
	start := s.pos
	for pred(s.Current()) && s.Current() != EOF {
		if err := s.Advance(); err != nil {
			return s.rangeFrom(start), err
		}
	}
	return s.rangeFrom(start), nil
}

// ReadWhile1 reads a string while the predicate holds. The predicate
// must be satisfied at least once.
func (s *Scanner) ReadWhile1(desc string, pred func(r rune) bool) (directives.Range, error) {
	start := s.pos
	if s.Current() == EOF {
		return s.rangeFrom(start), fmt.Errorf("unexpected end of file, want %s", desc)
	}
	if !pred(s.Current()) {
		return s.rangeFrom(start), fmt.Errorf("unexpected character %q, want %s", s.Current(), desc)
	}
	for pred(s.Current()) && s.Current() != EOF {
		if err := s.Advance(); err != nil {
			return s.rangeFrom(start), err
		}
	}
	return s.rangeFrom(start), nil
}

// ReadCharacter consumes the given rune.
func (s *Scanner) ReadCharacter(r rune) (directives.Range, error) {
	if s.Current() != r {
		return s.rangeFrom(s.pos), fmt.Errorf("unexpected character %q, want %q", s.Current(), r)
	}
	start := s.pos
	err := s.Advance()
	return s.rangeFrom(start), err
}

// ReadCharacterWith consumes a rune satisfying the predicate.
func (s *Scanner) ReadCharacterWith(desc string, pred func(r rune) bool) (directives.Range, error) {
	if !pred(s.Current()) {
		return s.rangeFrom(s.pos), fmt.Errorf("unexpected character %q, want %s", s.Current(), desc)
	}
	start := s.pos
	err := s.Advance()
	return s.rangeFrom(start), err
}

// ReadString parses the given string.
func (s *Scanner) ReadString(str string) (directives.Range, error) {
	start := s.pos
	for _, ch := range str {
		if ch != s.Current() {
			return s.rangeFrom(start), fmt.Errorf("expected %v, got %v", str, s.text[start:s.pos])
		}
		if err := s.Advance(); err != nil {
			return s.rangeFrom(start), err
		}
	}
	return s.rangeFrom(start), nil
}

// ReadAlternative parses one of the given strings.
func (s *Scanner) ReadAlternative(strs []string) (directives.Range, error) {
	start := s.pos
	for _, str := range strs {
		if s.matchesAt(start, str) {
			return s.ReadString(str)
		}
	}
	return s.rangeFrom(start), fmt.Errorf("expected one of %v", strs)
}

func (s *Scanner) matchesAt(pos int, str string) bool {
	end := pos + len(str)
	return end <= len(s.text) && s.text[pos:end] == str
}

// ReadN reads a string with n runes.
func (s *Scanner) ReadN(n int) (directives.Range, error) {
	start := s.pos
	for i := 0; i < n; i++ {
		if s.current == EOF {
			return s.rangeFrom(start), io.EOF
		}
		if err := s.Advance(); err != nil {
			return s.rangeFrom(start), err
		}
	}
	return s.rangeFrom(start), nil
}

func (s *Scanner) rangeFrom(start int) directives.Range {
	return directives.Range{
		Start: start,
		End:   s.Offset(),
		Path:  s.path,
		Text:  s.text,
	}
}
