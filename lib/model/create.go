package model

import (
	"time"

	"github.com/lotcheck/lotcheck/lib/syntax"
)

// Create creates a model directive from a syntax directive.
func Create(reg *Registry, d syntax.Directive) (Directive, error) {
	switch t := d.Directive.(type) {
	case syntax.Transaction:
		return CreateTransaction(reg, &t)
	case syntax.Open:
		return CreateOpen(reg, &t)
	case syntax.Close:
		return CreateClose(reg, &t)
	case syntax.Assertion:
		return CreateBalance(reg, &t)
	}
	return nil, syntax.Error{
		Message: "unknown directive",
		Range:   d.Range,
	}
}

// CreateTransaction creates a transaction.
func CreateTransaction(reg *Registry, t *syntax.Transaction) (*Transaction, error) {
	date, err := t.Date.Parse()
	if err != nil {
		return nil, err
	}
	postings := make([]*Posting, 0, len(t.Postings))
	for i := range t.Postings {
		p, err := createPosting(reg, &t.Postings[i])
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	var tags, links []string
	for _, tag := range t.Tags {
		tags = append(tags, tag.Extract())
	}
	for _, link := range t.Links {
		links = append(links, link.Extract())
	}
	return TransactionBuilder{
		Src:       t,
		Date:      date,
		Flag:      t.Flag.Extract(),
		Narration: t.Narration.Content.Extract(),
		Tags:      tags,
		Links:     links,
		Postings:  postings,
	}.Build(), nil
}

func createPosting(reg *Registry, p *syntax.Posting) (*Posting, error) {
	acc, err := reg.Accounts().Create(p.Account)
	if err != nil {
		return nil, syntax.Error{Range: p.Account.Range, Message: "creating account", Wrapped: err}
	}
	quantity, err := p.Quantity.Parse()
	if err != nil {
		return nil, err
	}
	com, err := reg.Commodities().Create(p.Commodity)
	if err != nil {
		return nil, syntax.Error{Range: p.Commodity.Range, Message: "creating commodity", Wrapped: err}
	}
	var lot *Lot
	if !p.Lot.Empty() {
		if lot, err = createLot(reg, &p.Lot); err != nil {
			return nil, err
		}
	}
	return &Posting{
		Src:       p,
		Account:   acc,
		Quantity:  quantity,
		Commodity: com,
		Lot:       lot,
	}, nil
}

func createLot(reg *Registry, l *syntax.Lot) (*Lot, error) {
	price, err := l.Price.Parse()
	if err != nil {
		return nil, err
	}
	currency, err := reg.Commodities().Create(l.Commodity)
	if err != nil {
		return nil, syntax.Error{Range: l.Commodity.Range, Message: "creating commodity", Wrapped: err}
	}
	var date time.Time
	if !l.Date.Empty() {
		if date, err = l.Date.Parse(); err != nil {
			return nil, err
		}
	}
	return &Lot{
		Price:    price,
		Currency: currency,
		Date:     date,
	}, nil
}

// CreateOpen creates an open directive.
func CreateOpen(reg *Registry, o *syntax.Open) (*Open, error) {
	date, err := o.Date.Parse()
	if err != nil {
		return nil, err
	}
	acc, err := reg.Accounts().Create(o.Account)
	if err != nil {
		return nil, syntax.Error{Range: o.Account.Range, Message: "creating account", Wrapped: err}
	}
	return &Open{Src: o, Date: date, Account: acc}, nil
}

// CreateClose creates a close directive.
func CreateClose(reg *Registry, c *syntax.Close) (*Close, error) {
	date, err := c.Date.Parse()
	if err != nil {
		return nil, err
	}
	acc, err := reg.Accounts().Create(c.Account)
	if err != nil {
		return nil, syntax.Error{Range: c.Account.Range, Message: "creating account", Wrapped: err}
	}
	return &Close{Src: c, Date: date, Account: acc}, nil
}

// CreateBalance creates a balance assertion.
func CreateBalance(reg *Registry, a *syntax.Assertion) (*Balance, error) {
	date, err := a.Date.Parse()
	if err != nil {
		return nil, err
	}
	acc, err := reg.Accounts().Create(a.Account)
	if err != nil {
		return nil, syntax.Error{Range: a.Account.Range, Message: "creating account", Wrapped: err}
	}
	quantity, err := a.Quantity.Parse()
	if err != nil {
		return nil, err
	}
	com, err := reg.Commodities().Create(a.Commodity)
	if err != nil {
		return nil, syntax.Error{Range: a.Commodity.Range, Message: "creating commodity", Wrapped: err}
	}
	return &Balance{
		Src:       a,
		Date:      date,
		Account:   acc,
		Quantity:  quantity,
		Commodity: com,
	}, nil
}
