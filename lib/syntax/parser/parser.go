package parser

import (
	"fmt"
	"unicode"

	"github.com/lotcheck/lotcheck/lib/syntax/directives"
	"github.com/lotcheck/lotcheck/lib/syntax/scanner"
)

// Parser parses a ledger file.
type Parser struct {
	scanner.Scanner

	Callback func(d directives.Directive)
}

// New creates a new parser.
func New(text, path string) *Parser {
	return &Parser{
		Scanner: *scanner.New(text, path),
	}
}

func (p *Parser) readComment() (directives.Range, error) {
	p.RangeStart("reading comment")
	defer p.RangeEnd()
	if _, err := p.ReadAlternative([]string{";", "*"}); err != nil {
		return p.Range(), p.Annotate(err)
	}
	if _, err := p.ReadWhile(func(r rune) bool { return !isNewlineOrEOF(r) }); err != nil {
		return p.Range(), p.Annotate(err)
	}
	return p.Range(), nil
}

func (p *Parser) ParseFile() (directives.File, error) {
	p.RangeStart(fmt.Sprintf("parsing file `%s`", p.Path()))
	defer p.RangeEnd()
	var file directives.File
	for p.Current() != scanner.EOF {
		if _, err := p.ReadWhile(isWhitespaceOrNewline); err != nil {
			return directives.SetRange(&file, p.Range()), p.Annotate(err)
		}
		switch {

		case p.Current() == ';' || p.Current() == '*':
			if _, err := p.readComment(); err != nil {
				return directives.SetRange(&file, p.Range()), p.Annotate(err)
			}

		case unicode.IsDigit(p.Current()) || p.Current() == 'i':
			dir, err := p.parseDirective()
			file.Directives = append(file.Directives, dir)
			if err != nil {
				return directives.SetRange(&file, p.Range()), p.Annotate(err)
			}
			if p.Callback != nil {
				p.Callback(dir)
			}

		case p.Current() == scanner.EOF:

		default:
			return directives.SetRange(&file, p.Range()), p.Annotate(directives.Error{
				Message: fmt.Sprintf("unexpected character %q", p.Current()),
				Range:   p.Range(),
			})
		}
	}
	return directives.SetRange(&file, p.Range()), nil
}

func (p *Parser) parseDirective() (directives.Directive, error) {
	p.RangeStart("parsing directive")
	defer p.RangeEnd()
	var (
		dir directives.Directive
		err error
	)
	if p.Current() == 'i' {
		if dir.Directive, err = p.parseInclude(); err != nil {
			return directives.SetRange(&dir, p.Range()), p.Annotate(err)
		}
		return directives.SetRange(&dir, p.Range()), nil
	}
	date, err := p.parseDate()
	if err != nil {
		return directives.SetRange(&dir, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&dir, p.Range()), p.Annotate(err)
	}
	if p.Current() == '*' || p.Current() == '!' {
		if dir.Directive, err = p.parseTransaction(date); err != nil {
			return directives.SetRange(&dir, p.Range()), p.Annotate(err)
		}
	} else {
		r, err := p.ReadAlternative([]string{"open", "close", "balance"})
		if err != nil {
			return directives.SetRange(&dir, p.Range()), p.Annotate(err)
		}
		if _, err := p.readWhitespace1(); err != nil {
			return directives.SetRange(&dir, p.Range()), p.Annotate(err)
		}
		switch r.Extract() {
		case "open":
			if dir.Directive, err = p.parseOpen(date); err != nil {
				return directives.SetRange(&dir, p.Range()), p.Annotate(err)
			}
		case "close":
			if dir.Directive, err = p.parseClose(date); err != nil {
				return directives.SetRange(&dir, p.Range()), p.Annotate(err)
			}
		case "balance":
			if dir.Directive, err = p.parseAssertion(date); err != nil {
				return directives.SetRange(&dir, p.Range()), p.Annotate(err)
			}
		}
	}
	return directives.SetRange(&dir, p.Range()), nil
}

func (p *Parser) parseInclude() (directives.Include, error) {
	p.RangeStart("parsing `include` statement")
	defer p.RangeEnd()
	var (
		include directives.Include
		err     error
	)
	if _, err := p.ReadString("include"); err != nil {
		return directives.SetRange(&include, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&include, p.Range()), p.Annotate(err)
	}
	if include.IncludePath, err = p.parseQuotedString(); err != nil {
		return directives.SetRange(&include, p.Range()), p.Annotate(err)
	}
	return directives.SetRange(&include, p.Range()), nil
}

func (p *Parser) parseOpen(date directives.Date) (directives.Open, error) {
	p.RangeContinue("parsing `open` directive")
	defer p.RangeEnd()
	var (
		open = directives.Open{Date: date}
		err  error
	)
	if open.Account, err = p.parseAccount(); err != nil {
		err = p.Annotate(err)
	}
	return directives.SetRange(&open, p.Range()), err
}

func (p *Parser) parseClose(date directives.Date) (directives.Close, error) {
	p.RangeContinue("parsing `close` directive")
	defer p.RangeEnd()
	var (
		close = directives.Close{Date: date}
		err   error
	)
	if close.Account, err = p.parseAccount(); err != nil {
		err = p.Annotate(err)
	}
	return directives.SetRange(&close, p.Range()), err
}

func (p *Parser) parseAssertion(date directives.Date) (directives.Assertion, error) {
	p.RangeContinue("parsing `balance` directive")
	defer p.RangeEnd()
	var (
		assertion = directives.Assertion{Date: date}
		err       error
	)
	if assertion.Account, err = p.parseAccount(); err != nil {
		return directives.SetRange(&assertion, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&assertion, p.Range()), p.Annotate(err)
	}
	if assertion.Quantity, err = p.parseDecimal(); err != nil {
		return directives.SetRange(&assertion, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&assertion, p.Range()), p.Annotate(err)
	}
	if assertion.Commodity, err = p.parseCommodity(); err != nil {
		err = p.Annotate(err)
	}
	return directives.SetRange(&assertion, p.Range()), err
}

func (p *Parser) parseTransaction(date directives.Date) (directives.Transaction, error) {
	p.RangeContinue("parsing transaction")
	defer p.RangeEnd()
	var (
		trx = directives.Transaction{Date: date}
		err error
	)
	if trx.Flag, err = p.parseFlag(); err != nil {
		return directives.SetRange(&trx, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&trx, p.Range()), p.Annotate(err)
	}
	if p.Current() == '"' {
		if trx.Narration, err = p.parseQuotedString(); err != nil {
			return directives.SetRange(&trx, p.Range()), p.Annotate(err)
		}
	}
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return directives.SetRange(&trx, p.Range()), p.Annotate(err)
	}
	for p.Current() == '#' || p.Current() == '^' {
		switch p.Current() {
		case '#':
			tag, err := p.parseTag()
			if err != nil {
				return directives.SetRange(&trx, p.Range()), p.Annotate(err)
			}
			trx.Tags = append(trx.Tags, tag)
		case '^':
			link, err := p.parseLink()
			if err != nil {
				return directives.SetRange(&trx, p.Range()), p.Annotate(err)
			}
			trx.Links = append(trx.Links, link)
		}
		if _, err := p.ReadWhile(isWhitespace); err != nil {
			return directives.SetRange(&trx, p.Range()), p.Annotate(err)
		}
	}
	if _, err := p.readRestOfWhitespaceLine(); err != nil {
		return directives.SetRange(&trx, p.Range()), p.Annotate(err)
	}
	for p.Current() == ' ' || p.Current() == '\t' {
		if _, err := p.ReadWhile(isWhitespace); err != nil {
			return directives.SetRange(&trx, p.Range()), p.Annotate(err)
		}
		if isNewlineOrEOF(p.Current()) {
			// a whitespace-only line ends the block
			break
		}
		pst, err := p.parsePosting()
		trx.Postings = append(trx.Postings, pst)
		if err != nil {
			return directives.SetRange(&trx, p.Range()), p.Annotate(err)
		}
		if _, err := p.readRestOfWhitespaceLine(); err != nil {
			return directives.SetRange(&trx, p.Range()), p.Annotate(err)
		}
	}
	if len(trx.Postings) == 0 {
		return directives.SetRange(&trx, p.Range()), p.Annotate(directives.Error{
			Message: "transaction has no postings",
			Range:   p.Range(),
		})
	}
	return directives.SetRange(&trx, p.Range()), nil
}

func (p *Parser) parsePosting() (directives.Posting, error) {
	p.RangeStart("parsing posting")
	defer p.RangeEnd()
	var (
		pst directives.Posting
		err error
	)
	if pst.Account, err = p.parseAccount(); err != nil {
		return directives.SetRange(&pst, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&pst, p.Range()), p.Annotate(err)
	}
	if pst.Quantity, err = p.parseDecimal(); err != nil {
		return directives.SetRange(&pst, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&pst, p.Range()), p.Annotate(err)
	}
	if pst.Commodity, err = p.parseCommodity(); err != nil {
		return directives.SetRange(&pst, p.Range()), p.Annotate(err)
	}
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return directives.SetRange(&pst, p.Range()), p.Annotate(err)
	}
	if p.Current() == '{' {
		if pst.Lot, err = p.parseLot(); err != nil {
			return directives.SetRange(&pst, p.Range()), p.Annotate(err)
		}
	}
	return directives.SetRange(&pst, p.Range()), nil
}

func (p *Parser) parseLot() (directives.Lot, error) {
	p.RangeStart("parsing lot")
	defer p.RangeEnd()
	var (
		lot directives.Lot
		err error
	)
	if _, err := p.ReadCharacter('{'); err != nil {
		return directives.SetRange(&lot, p.Range()), p.Annotate(err)
	}
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return directives.SetRange(&lot, p.Range()), p.Annotate(err)
	}
	if lot.Price, err = p.parseDecimal(); err != nil {
		return directives.SetRange(&lot, p.Range()), p.Annotate(err)
	}
	if _, err := p.readWhitespace1(); err != nil {
		return directives.SetRange(&lot, p.Range()), p.Annotate(err)
	}
	if lot.Commodity, err = p.parseCommodity(); err != nil {
		return directives.SetRange(&lot, p.Range()), p.Annotate(err)
	}
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return directives.SetRange(&lot, p.Range()), p.Annotate(err)
	}
	if p.Current() == '/' {
		if _, err := p.ReadCharacter('/'); err != nil {
			return directives.SetRange(&lot, p.Range()), p.Annotate(err)
		}
		if _, err := p.ReadWhile(isWhitespace); err != nil {
			return directives.SetRange(&lot, p.Range()), p.Annotate(err)
		}
		if lot.Date, err = p.parseDate(); err != nil {
			return directives.SetRange(&lot, p.Range()), p.Annotate(err)
		}
		if _, err := p.ReadWhile(isWhitespace); err != nil {
			return directives.SetRange(&lot, p.Range()), p.Annotate(err)
		}
	}
	if _, err := p.ReadCharacter('}'); err != nil {
		return directives.SetRange(&lot, p.Range()), p.Annotate(err)
	}
	return directives.SetRange(&lot, p.Range()), nil
}

func (p *Parser) parseFlag() (directives.Flag, error) {
	p.RangeStart("parsing flag")
	defer p.RangeEnd()
	if _, err := p.ReadAlternative([]string{"*", "!"}); err != nil {
		return directives.Flag{Range: p.Range()}, p.Annotate(err)
	}
	return directives.Flag{Range: p.Range()}, nil
}

func (p *Parser) parseTag() (directives.Tag, error) {
	p.RangeStart("parsing tag")
	defer p.RangeEnd()
	if _, err := p.ReadCharacter('#'); err != nil {
		return directives.Tag{Range: p.Range()}, p.Annotate(err)
	}
	if _, err := p.ReadWhile1("a letter or a digit", isIdent); err != nil {
		return directives.Tag{Range: p.Range()}, p.Annotate(err)
	}
	return directives.Tag{Range: p.Range()}, nil
}

func (p *Parser) parseLink() (directives.Link, error) {
	p.RangeStart("parsing link")
	defer p.RangeEnd()
	if _, err := p.ReadCharacter('^'); err != nil {
		return directives.Link{Range: p.Range()}, p.Annotate(err)
	}
	if _, err := p.ReadWhile1("a letter or a digit", isIdent); err != nil {
		return directives.Link{Range: p.Range()}, p.Annotate(err)
	}
	return directives.Link{Range: p.Range()}, nil
}

func (p *Parser) parseCommodity() (directives.Commodity, error) {
	p.RangeStart("parsing commodity")
	defer p.RangeEnd()
	var commodity directives.Commodity
	_, err := p.ReadWhile1("a letter or a digit", isAlphanumeric)
	if err != nil {
		err = p.Annotate(err)
	}
	return directives.SetRange(&commodity, p.Range()), err
}

func (p *Parser) parseDecimal() (directives.Decimal, error) {
	p.RangeStart("parsing decimal")
	defer p.RangeEnd()
	if p.Current() == '-' {
		if _, err := p.ReadCharacter('-'); err != nil {
			return directives.Decimal{Range: p.Range()}, p.Annotate(err)
		}
	}
	if _, err := p.ReadWhile1("a digit", unicode.IsDigit); err != nil {
		return directives.Decimal{Range: p.Range()}, p.Annotate(err)
	}
	if p.Current() != '.' {
		return directives.Decimal{Range: p.Range()}, nil
	}
	if _, err := p.ReadCharacter('.'); err != nil {
		return directives.Decimal{Range: p.Range()}, p.Annotate(err)
	}
	if _, err := p.ReadWhile1("a digit", unicode.IsDigit); err != nil {
		return directives.Decimal{Range: p.Range()}, p.Annotate(err)
	}
	return directives.Decimal{Range: p.Range()}, nil
}

func (p *Parser) parseAccount() (directives.Account, error) {
	p.RangeStart("parsing account")
	defer p.RangeEnd()
	if _, err := p.ReadWhile1("a letter or a digit", isAlphanumeric); err != nil {
		return directives.Account{Range: p.Range()}, p.Annotate(err)
	}
	for {
		if p.Current() != ':' {
			return directives.Account{Range: p.Range()}, nil
		}
		if _, err := p.ReadCharacter(':'); err != nil {
			return directives.Account{Range: p.Range()}, p.Annotate(err)
		}
		if _, err := p.ReadWhile1("a letter or a digit", isAlphanumeric); err != nil {
			return directives.Account{Range: p.Range()}, p.Annotate(err)
		}
	}
}

func (p *Parser) parseDate() (directives.Date, error) {
	p.RangeStart("parsing the date")
	defer p.RangeEnd()

	for i := 0; i < 4; i++ {
		if _, err := p.ReadCharacterWith("a digit", unicode.IsDigit); err != nil {
			return directives.Date{Range: p.Range()}, p.Annotate(err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := p.ReadCharacter('-'); err != nil {
			return directives.Date{Range: p.Range()}, p.Annotate(err)
		}
		for j := 0; j < 2; j++ {
			if _, err := p.ReadCharacterWith("a digit", unicode.IsDigit); err != nil {
				return directives.Date{Range: p.Range()}, p.Annotate(err)
			}
		}
	}
	return directives.Date{Range: p.Range()}, nil
}

func (p *Parser) parseQuotedString() (directives.QuotedString, error) {
	p.RangeStart("parsing quoted string")
	defer p.RangeEnd()
	var (
		qs  directives.QuotedString
		err error
	)
	if _, err := p.ReadCharacter('"'); err != nil {
		return directives.SetRange(&qs, p.Range()), p.Annotate(err)
	}
	if qs.Content, err = p.ReadWhile(func(r rune) bool { return r != '"' }); err != nil {
		return directives.SetRange(&qs, p.Range()), p.Annotate(err)
	}
	if _, err := p.ReadCharacter('"'); err != nil {
		return directives.SetRange(&qs, p.Range()), p.Annotate(err)
	}
	return directives.SetRange(&qs, p.Range()), nil
}

func (p *Parser) readWhitespace1() (directives.Range, error) {
	p.RangeStart("")
	defer p.RangeEnd()
	if !isWhitespaceOrNewline(p.Current()) && p.Current() != scanner.EOF {
		return p.Range(), directives.Error{
			Message: fmt.Sprintf("unexpected character %q, want whitespace or a newline", p.Current()),
			Range:   p.Range(),
		}
	}
	return p.ReadWhile(isWhitespace)
}

func (p *Parser) readRestOfWhitespaceLine() (directives.Range, error) {
	p.RangeStart("reading the rest of the line")
	defer p.RangeEnd()
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return p.Range(), p.Annotate(err)
	}
	if p.Current() == scanner.EOF {
		return p.Range(), nil
	}
	if _, err := p.ReadCharacter('\n'); err != nil {
		return p.Range(), p.Annotate(err)
	}
	return p.Range(), nil
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdent(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isWhitespaceOrNewline(ch rune) bool {
	return isNewline(ch) || isWhitespace(ch)
}

func isNewline(ch rune) bool {
	return ch == '\n'
}

func isNewlineOrEOF(ch rune) bool {
	return ch == '\n' || ch == scanner.EOF
}
