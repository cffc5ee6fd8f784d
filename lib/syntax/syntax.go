package syntax

import (
	"os"

	"github.com/lotcheck/lotcheck/lib/syntax/directives"
	"github.com/lotcheck/lotcheck/lib/syntax/parser"
)

type Commodity = directives.Commodity

type Account = directives.Account

type Date = directives.Date

type Decimal = directives.Decimal

type QuotedString = directives.QuotedString

type Flag = directives.Flag

type Tag = directives.Tag

type Link = directives.Link

type Lot = directives.Lot

type Posting = directives.Posting

type Transaction = directives.Transaction

type Open = directives.Open

type Close = directives.Close

type Assertion = directives.Assertion

type Include = directives.Include

type Directive = directives.Directive

type File = directives.File

type Range = directives.Range

type Location = directives.Location

type Error = directives.Error

type Parser = parser.Parser

// ParseFile parses the ledger file at the given path.
func ParseFile(file string) (directives.File, error) {
	text, err := os.ReadFile(file)
	if err != nil {
		return directives.File{}, err
	}
	return Parse(string(text), file)
}

// Parse parses the given ledger text.
func Parse(text, path string) (directives.File, error) {
	p := parser.New(text, path)
	if err := p.Advance(); err != nil {
		return directives.File{}, err
	}
	return p.ParseFile()
}
