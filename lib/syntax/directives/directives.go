package directives

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Commodity struct{ Range }

type Account struct{ Range }

type Date struct{ Range }

func (d Date) Parse() (time.Time, error) {
	date, err := time.Parse("2006-01-02", d.Extract())
	if err != nil {
		return date, Error{
			Message: "parsing date",
			Range:   d.Range,
			Wrapped: err,
		}
	}
	return date, nil
}

type Decimal struct{ Range }

func (d Decimal) Parse() (decimal.Decimal, error) {
	dec, err := decimal.NewFromString(d.Extract())
	if err != nil {
		return dec, Error{
			Message: "parsing decimal",
			Range:   d.Range,
			Wrapped: err,
		}
	}
	return dec, nil
}

type QuotedString struct {
	Range
	Content Range
}

type Flag struct{ Range }

type Tag struct{ Range }

type Link struct{ Range }

// Lot is a cost basis annotation `{<price> <commodity> [/ <date>]}`.
type Lot struct {
	Range
	Price     Decimal
	Commodity Commodity
	Date      Date
}

type Posting struct {
	Range
	Account   Account
	Quantity  Decimal
	Commodity Commodity
	Lot       Lot
}

type Transaction struct {
	Range
	Date      Date
	Flag      Flag
	Narration QuotedString
	Tags      []Tag
	Links     []Link
	Postings  []Posting
}

type Open struct {
	Range
	Date    Date
	Account Account
}

type Close struct {
	Range
	Date    Date
	Account Account
}

type Assertion struct {
	Range
	Date      Date
	Account   Account
	Quantity  Decimal
	Commodity Commodity
}

type Include struct {
	Range
	IncludePath QuotedString
}

type Directive struct {
	Range
	Directive any
}

type File struct {
	Range
	Directives []Directive
}

type Range struct {
	Start, End int
	Path, Text string
}

func (r Range) Extract() string {
	return r.Text[r.Start:r.End]
}

func (r *Range) SetRange(r2 Range) {
	*r = r2
}

func (r Range) Length() int {
	return r.End - r.Start
}

func (r *Range) Extend(r2 Range) {
	if r.Start > r2.Start {
		r.Start = r2.Start
	}
	if r.End < r2.End {
		r.End = r2.End
	}
}

func SetRange[T any, P interface {
	*T
	SetRange(Range)
}](t P, r Range) T {
	t.SetRange(r)
	return *t
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) Location() Location {
	loc := Location{Line: 1, Col: 1}
	for pos, ch := range r.Text {
		if pos == r.Start {
			return loc
		}
		if ch == '\n' {
			loc.Line++
			loc.Col = 1
		} else {
			loc.Col++
		}
	}
	return loc
}

type Location struct {
	Line, Col int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

var _ error = Error{}

type Error struct {
	Range
	Message string
	Wrapped error
}

func (e Error) Error() string {
	var s strings.Builder
	if len(e.Path) > 0 {
		s.WriteString(e.Path)
		s.WriteString(": ")
	}
	s.WriteString(e.Location().String())
	s.WriteString(" ")
	s.WriteString(e.Message)
	if e.Wrapped != nil {
		s.WriteString("\n")
		s.WriteString(e.Wrapped.Error())
	}
	return s.String()
}

func (e Error) Unwrap() error {
	return e.Wrapped
}
