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
	"testing"
	"unicode"

	"github.com/lotcheck/lotcheck/lib/syntax/directives"
)

func setupScanner(t *testing.T, text string) *Scanner {
	t.Helper()
	s := New(text, "")
	if err := s.Advance(); err != nil {
		t.Fatalf("s.Advance() = %v, want nil", err)
	}
	return s
}

func TestNewScanner(t *testing.T) {
	s := setupScanner(t, "")
	if c := s.Current(); c != EOF {
		t.Fatalf("s.Current() = %c, want EOF", c)
	}
}

func TestReadN(t *testing.T) {
	for _, test := range []struct {
		n       int
		want    directives.Range
		wantErr bool
	}{
		{
			n:    3,
			want: directives.Range{Start: 0, End: 3, Text: "foobar"},
		},
		{
			n:    6,
			want: directives.Range{Start: 0, End: 6, Text: "foobar"},
		},
		{
			n:       7,
			want:    directives.Range{Start: 0, End: 6, Text: "foobar"},
			wantErr: true,
		},
	} {
		t.Run(fmt.Sprintf("n=%d", test.n), func(t *testing.T) {
			scanner := setupScanner(t, "foobar")

			got, err := scanner.ReadN(test.n)

			if (err != nil) != test.wantErr {
				t.Fatalf("scanner.ReadN(%d) returned error %#v, want error presence %t", test.n, err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("scanner.ReadN(%d) = %v, want %v", test.n, got, test.want)
			}
		})
	}
}

func TestReadString(t *testing.T) {
	for _, test := range []struct {
		str     string
		want    directives.Range
		wantErr bool
	}{
		{
			str:  "",
			want: directives.Range{Start: 0, End: 0, Text: "foobar"},
		},
		{
			str:  "foo",
			want: directives.Range{Start: 0, End: 3, Text: "foobar"},
		},
		{
			str:  "foobar",
			want: directives.Range{Start: 0, End: 6, Text: "foobar"},
		},
		{
			str:     "foobarbaz",
			want:    directives.Range{Start: 0, End: 6, Text: "foobar"},
			wantErr: true,
		},
	} {
		t.Run(test.str, func(t *testing.T) {
			scanner := setupScanner(t, "foobar")

			got, err := scanner.ReadString(test.str)

			if (err != nil) != test.wantErr {
				t.Fatalf("scanner.ReadString(%q) returned error %#v, want error presence %t", test.str, err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("scanner.ReadString(%q) = %v, want %v", test.str, got, test.want)
			}
		})
	}
}

func TestReadCharacter(t *testing.T) {
	for _, test := range []struct {
		char    rune
		want    directives.Range
		wantErr bool
	}{
		{
			char: 'f',
			want: directives.Range{Start: 0, End: 1, Text: "foobar"},
		},
		{
			char:    'o',
			want:    directives.Range{Start: 0, End: 0, Text: "foobar"},
			wantErr: true,
		},
	} {
		t.Run(string(test.char), func(t *testing.T) {
			scanner := setupScanner(t, "foobar")

			got, err := scanner.ReadCharacter(test.char)

			if (err != nil) != test.wantErr {
				t.Fatalf("scanner.ReadCharacter(%q) returned error %#v, want error presence %t", test.char, err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("scanner.ReadCharacter(%q) = %v, want %v", test.char, got, test.want)
			}
		})
	}
}

func TestReadWhile(t *testing.T) {
	for _, test := range []struct {
		text string
		want directives.Range
	}{
		{
			text: "foobar123",
			want: directives.Range{Start: 0, End: 6, Text: "foobar123"},
		},
		{
			text: "123foobar",
			want: directives.Range{Start: 0, End: 0, Text: "123foobar"},
		},
		{
			text: "",
			want: directives.Range{Start: 0, End: 0, Text: ""},
		},
	} {
		t.Run(test.text, func(t *testing.T) {
			scanner := setupScanner(t, test.text)

			got, err := scanner.ReadWhile(unicode.IsLetter)

			if err != nil {
				t.Fatalf("scanner.ReadWhile() returned error %#v, want nil", err)
			}
			if got != test.want {
				t.Fatalf("scanner.ReadWhile() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestReadWhile1(t *testing.T) {
	for _, test := range []struct {
		text    string
		want    directives.Range
		wantErr bool
	}{
		{
			text: "foobar123",
			want: directives.Range{Start: 0, End: 6, Text: "foobar123"},
		},
		{
			text:    "123foobar",
			want:    directives.Range{Start: 0, End: 0, Text: "123foobar"},
			wantErr: true,
		},
	} {
		t.Run(test.text, func(t *testing.T) {
			scanner := setupScanner(t, test.text)

			got, err := scanner.ReadWhile1("a letter", unicode.IsLetter)

			if (err != nil) != test.wantErr {
				t.Fatalf("scanner.ReadWhile1() returned error %#v, want error presence %t", err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("scanner.ReadWhile1() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestReadAlternative(t *testing.T) {
	for _, test := range []struct {
		text    string
		want    directives.Range
		wantErr bool
	}{
		{
			text: "open Assets",
			want: directives.Range{Start: 0, End: 4, Text: "open Assets"},
		},
		{
			text: "close Assets",
			want: directives.Range{Start: 0, End: 5, Text: "close Assets"},
		},
		{
			text: "balance Assets",
			want: directives.Range{Start: 0, End: 7, Text: "balance Assets"},
		},
		{
			text:    "price USD",
			want:    directives.Range{Start: 0, End: 0, Text: "price USD"},
			wantErr: true,
		},
	} {
		t.Run(test.text, func(t *testing.T) {
			scanner := setupScanner(t, test.text)

			got, err := scanner.ReadAlternative([]string{"open", "close", "balance"})

			if (err != nil) != test.wantErr {
				t.Fatalf("scanner.ReadAlternative() returned error %#v, want error presence %t", err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("scanner.ReadAlternative() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestRangeStack(t *testing.T) {
	scanner := setupScanner(t, "foobar")
	scanner.RangeStart("outer")
	if _, err := scanner.ReadString("foo"); err != nil {
		t.Fatalf("scanner.ReadString() returned error %v, want nil", err)
	}
	scanner.RangeStart("inner")
	if _, err := scanner.ReadString("bar"); err != nil {
		t.Fatalf("scanner.ReadString() returned error %v, want nil", err)
	}
	inner := scanner.Range()
	if want := (directives.Range{Start: 3, End: 6, Text: "foobar"}); inner != want {
		t.Fatalf("scanner.Range() = %v, want %v", inner, want)
	}
	scanner.RangeEnd()
	outer := scanner.Range()
	if want := (directives.Range{Start: 0, End: 6, Text: "foobar"}); outer != want {
		t.Fatalf("scanner.Range() = %v, want %v", outer, want)
	}
	scanner.RangeEnd()
}
