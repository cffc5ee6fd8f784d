package journal

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/lotcheck/lotcheck/lib/common/compare"
	"github.com/lotcheck/lotcheck/lib/common/dict"
	"github.com/lotcheck/lotcheck/lib/common/set"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/lotcheck/lotcheck/lib/syntax"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Error is a processing error, with a reference to a directive with
// a source location.
type Error struct {
	Directive model.Directive
	Msg       string
}

func (e Error) Error() string {
	if rng, ok := source(e.Directive); ok {
		return fmt.Sprintf("%s: %s %s", rng.Path, rng.Location(), e.Msg)
	}
	return e.Msg
}

func source(d model.Directive) (syntax.Range, bool) {
	switch t := d.(type) {
	case *model.Open:
		if t.Src != nil {
			return t.Src.Range, true
		}
	case *model.Close:
		if t.Src != nil {
			return t.Src.Range, true
		}
	case *model.Balance:
		if t.Src != nil {
			return t.Src.Range, true
		}
	case *model.Transaction:
		if t.Src != nil {
			return t.Src.Range, true
		}
	}
	return syntax.Range{}, false
}

// Day groups the directives of a single calendar day.
type Day struct {
	Date         time.Time
	Openings     []*model.Open
	Closings     []*model.Close
	Balances     []*model.Balance
	Transactions []*model.Transaction
}

// Journal is an ordered sequence of days.
type Journal struct {
	Registry *model.Registry
	days     map[time.Time]*Day
}

// New creates a new Journal.
func New(reg *model.Registry) *Journal {
	return &Journal{
		Registry: reg,
		days:     make(map[time.Time]*Day),
	}
}

// Day returns the day for the given date, creating it if necessary.
func (j *Journal) Day(date time.Time) *Day {
	return dict.GetDefault(j.days, date, func() *Day {
		return &Day{Date: date}
	})
}

// Days returns the days of the journal, in chronological order.
func (j *Journal) Days() []*Day {
	return dict.SortedValues(j.days, func(d1, d2 *Day) compare.Order {
		return compare.Time(d1.Date, d2.Date)
	})
}

// Add adds a directive to the journal.
func (j *Journal) Add(d model.Directive) error {
	switch t := d.(type) {
	case *model.Open:
		day := j.Day(t.Date)
		day.Openings = append(day.Openings, t)
	case *model.Close:
		day := j.Day(t.Date)
		day.Closings = append(day.Closings, t)
	case *model.Balance:
		day := j.Day(t.Date)
		day.Balances = append(day.Balances, t)
	case *model.Transaction:
		day := j.Day(t.Date)
		day.Transactions = append(day.Transactions, t)
	default:
		return fmt.Errorf("unknown directive: %v", d)
	}
	return nil
}

// FromPath parses the file at the given path, following includes, and
// builds a journal. Every file is parsed at most once, so include
// cycles terminate.
func FromPath(ctx context.Context, reg *model.Registry, file string) (*Journal, error) {
	var (
		mutex sync.Mutex
		files []syntax.File
		seen  = set.New[string]()
	)
	wg, ctx := errgroup.WithContext(ctx)
	var parseRec func(file string) error
	parseRec = func(file string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		mutex.Lock()
		if seen.Has(file) {
			mutex.Unlock()
			return nil
		}
		seen.Add(file)
		mutex.Unlock()
		f, err := syntax.ParseFile(file)
		if err != nil {
			return err
		}
		for _, d := range f.Directives {
			if inc, ok := d.Directive.(syntax.Include); ok {
				include := path.Join(filepath.Dir(file), inc.IncludePath.Content.Extract())
				wg.Go(func() error {
					return parseRec(include)
				})
			}
		}
		mutex.Lock()
		defer mutex.Unlock()
		files = append(files, f)
		return nil
	}
	wg.Go(func() error {
		return parseRec(file)
	})
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	// model building is sequential, in a stable order
	compare.Sort(files, func(f1, f2 syntax.File) compare.Order {
		return compare.Ordered(f1.Path, f2.Path)
	})
	j := New(reg)
	for _, f := range files {
		for _, d := range f.Directives {
			if _, ok := d.Directive.(syntax.Include); ok {
				continue
			}
			m, err := model.Create(reg, d)
			if err != nil {
				return nil, err
			}
			if err := j.Add(m); err != nil {
				return nil, err
			}
		}
	}
	return j, nil
}

// FromText parses a journal from the given text. Include directives
// are rejected: text input has no base directory to resolve them
// against.
func FromText(reg *model.Registry, text, path string) (*Journal, error) {
	f, err := syntax.Parse(text, path)
	if err != nil {
		return nil, err
	}
	j := New(reg)
	for _, d := range f.Directives {
		if _, ok := d.Directive.(syntax.Include); ok {
			return nil, syntax.Error{
				Range:   d.Range,
				Message: "include directives are not supported in text input",
			}
		}
		m, err := model.Create(reg, d)
		if err != nil {
			return nil, err
		}
		if err := j.Add(m); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// Processor processes the directives of a journal, in chronological
// order. Nil callbacks are skipped.
type Processor struct {
	Open        func(*model.Open) error
	Transaction func(*model.Transaction) error
	Posting     func(*model.Transaction, *model.Posting) error
	Balance     func(*model.Balance) error
	Close       func(*model.Close) error
	DayEnd      func(*Day) error
}

// Process runs the processors over the journal. Errors do not abort
// the run: every violation in the input is collected and the combined
// error is returned.
func (j *Journal) Process(ps ...*Processor) error {
	var errs error
	for _, day := range j.Days() {
		for _, p := range ps {
			for _, o := range day.Openings {
				if p.Open != nil {
					errs = multierr.Append(errs, p.Open(o))
				}
			}
			for _, t := range day.Transactions {
				if p.Transaction != nil {
					errs = multierr.Append(errs, p.Transaction(t))
				}
				if p.Posting != nil {
					for _, pst := range t.Postings {
						errs = multierr.Append(errs, p.Posting(t, pst))
					}
				}
			}
			for _, b := range day.Balances {
				if p.Balance != nil {
					errs = multierr.Append(errs, p.Balance(b))
				}
			}
			for _, c := range day.Closings {
				if p.Close != nil {
					errs = multierr.Append(errs, p.Close(c))
				}
			}
			if p.DayEnd != nil {
				errs = multierr.Append(errs, p.DayEnd(day))
			}
		}
	}
	return errs
}
