package printer

import (
	"fmt"
	"io"

	"github.com/lotcheck/lotcheck/lib/syntax"
)

// Printer prints directives.
type Printer struct {
	Padding int
}

// New creates a new Printer.
func New() *Printer {
	return new(Printer)
}

// PrintFile prints all directives in the file, separated by blank
// lines, with posting accounts padded to equal width.
func (p *Printer) PrintFile(w io.Writer, f syntax.File) (int, error) {
	p.updatePadding(f)
	var n int
	for i, d := range f.Directives {
		if i > 0 {
			c, err := io.WriteString(w, "\n")
			n += c
			if err != nil {
				return n, err
			}
		}
		c, err := p.PrintDirective(w, d)
		n += c
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// PrintDirective prints a directive to the given Writer.
func (p *Printer) PrintDirective(w io.Writer, directive syntax.Directive) (n int, err error) {
	switch d := directive.Directive.(type) {
	case syntax.Transaction:
		return p.printTransaction(w, d)
	case syntax.Open:
		return p.printOpen(w, d)
	case syntax.Close:
		return p.printClose(w, d)
	case syntax.Assertion:
		return p.printAssertion(w, d)
	case syntax.Include:
		return p.printInclude(w, d)
	}
	return 0, fmt.Errorf("unknown directive: %v", directive)
}

func (p *Printer) printTransaction(w io.Writer, t syntax.Transaction) (n int, err error) {
	c, err := fmt.Fprintf(w, "%s %s", t.Date.Extract(), t.Flag.Extract())
	n += c
	if err != nil {
		return n, err
	}
	if !t.Narration.Empty() {
		c, err := fmt.Fprintf(w, ` "%s"`, t.Narration.Content.Extract())
		n += c
		if err != nil {
			return n, err
		}
	}
	for _, tag := range t.Tags {
		c, err := fmt.Fprintf(w, " %s", tag.Extract())
		n += c
		if err != nil {
			return n, err
		}
	}
	for _, link := range t.Links {
		c, err := fmt.Fprintf(w, " %s", link.Extract())
		n += c
		if err != nil {
			return n, err
		}
	}
	c, err = io.WriteString(w, "\n")
	n += c
	if err != nil {
		return n, err
	}
	for _, pst := range t.Postings {
		c, err := p.printPosting(w, pst)
		n += c
		if err != nil {
			return n, err
		}
		c, err = io.WriteString(w, "\n")
		n += c
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p *Printer) printPosting(w io.Writer, pst syntax.Posting) (int, error) {
	n, err := fmt.Fprintf(w, "  %-*s %10s %s", p.Padding, pst.Account.Extract(), pst.Quantity.Extract(), pst.Commodity.Extract())
	if err != nil {
		return n, err
	}
	if !pst.Lot.Empty() {
		var c int
		if pst.Lot.Date.Empty() {
			c, err = fmt.Fprintf(w, " {%s %s}", pst.Lot.Price.Extract(), pst.Lot.Commodity.Extract())
		} else {
			c, err = fmt.Fprintf(w, " {%s %s / %s}", pst.Lot.Price.Extract(), pst.Lot.Commodity.Extract(), pst.Lot.Date.Extract())
		}
		n += c
	}
	return n, err
}

func (p *Printer) printOpen(w io.Writer, o syntax.Open) (int, error) {
	return fmt.Fprintf(w, "%s open %s\n", o.Date.Extract(), o.Account.Extract())
}

func (p *Printer) printClose(w io.Writer, c syntax.Close) (int, error) {
	return fmt.Fprintf(w, "%s close %s\n", c.Date.Extract(), c.Account.Extract())
}

func (p *Printer) printAssertion(w io.Writer, a syntax.Assertion) (int, error) {
	return fmt.Fprintf(w, "%s balance %s %s %s\n", a.Date.Extract(), a.Account.Extract(), a.Quantity.Extract(), a.Commodity.Extract())
}

func (p *Printer) printInclude(w io.Writer, i syntax.Include) (int, error) {
	return fmt.Fprintf(w, "include \"%s\"\n", i.IncludePath.Content.Extract())
}

func (p *Printer) updatePadding(f syntax.File) {
	for _, d := range f.Directives {
		if t, ok := d.Directive.(syntax.Transaction); ok {
			for _, pst := range t.Postings {
				if l := pst.Account.Length(); l > p.Padding {
					p.Padding = l
				}
			}
		}
	}
}
