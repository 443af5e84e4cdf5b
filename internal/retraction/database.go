package retraction

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matsen/ash/internal/doi"
)

// ErrSourceUnavailable is returned when the source file cannot be read.
var ErrSourceUnavailable = errors.New("retraction database source unavailable")

// State is the build state of a Database.
type State int

const (
	StateUnbuilt State = iota
	StateBuilding
	StateBuilt
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateBuilding:
		return "building"
	case StateBuilt:
		return "built"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Database maps DOIs to the retraction records that name them.
//
// A Database reads nothing until it is first queried. The first query (or
// an explicit Build) loads the whole source; the index never changes after
// that.
type Database struct {
	path      string
	keyColumn string
	logger    zerolog.Logger

	onState func(State)

	mu    sync.Mutex
	state State
	index map[string][]Record
	order []string
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used for load progress and validation warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Database) { d.logger = l }
}

// WithKeyColumn overrides the column holding the retracted paper's DOI.
func WithKeyColumn(name string) Option {
	return func(d *Database) { d.keyColumn = name }
}

// WithStateHook registers fn to be called on every state transition,
// including the intermediate StateBuilding. fn runs while the build lock is
// held and must not call back into the Database.
func WithStateHook(fn func(State)) Option {
	return func(d *Database) { d.onState = fn }
}

// New returns an unbuilt Database backed by the CSV at path.
func New(path string, opts ...Option) *Database {
	d := &Database{
		path:      path,
		keyColumn: ColumnOriginalDOI,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the source path.
func (d *Database) Path() string {
	return d.path
}

// State returns the current build state. StateBuilding is only observable
// through WithStateHook, since State waits for an in-progress build.
func (d *Database) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Build loads and validates the source if that has not happened yet.
// A failed build leaves the Database unbuilt.
func (d *Database) Build() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateBuilt {
		return nil
	}
	d.setState(StateBuilding)

	index, order, err := d.load()
	if err != nil {
		d.setState(StateUnbuilt)
		return err
	}

	d.index = index
	d.order = order
	d.setState(StateBuilt)
	d.validate()
	return nil
}

func (d *Database) setState(s State) {
	d.state = s
	if d.onState != nil {
		d.onState(s)
	}
}

func (d *Database) load() (map[string][]Record, []string, error) {
	d.logger.Info().Str("path", d.path).Msg("loading retraction database")

	f, err := os.Open(d.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	rows, err := ParseRecords(f, d.keyColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, d.path, err)
	}

	index := make(map[string][]Record)
	var order []string
	for _, row := range rows {
		if _, seen := index[row.DOI]; !seen {
			order = append(order, row.DOI)
		}
		index[row.DOI] = append(index[row.DOI], row.Record)
	}

	d.logger.Debug().Int("rows", len(rows)).Int("dois", len(index)).Msg("retraction database loaded")
	return index, order, nil
}

// validate warns about keys that do not look like DOIs. It never fails.
func (d *Database) validate() {
	for _, key := range d.order {
		if doi.Matches(key) {
			continue
		}
		d.logger.Warn().Str("doi", key).Msg("DOI does not match known patterns")
	}
}

// Contains reports whether any record names id.
func (d *Database) Contains(id string) (bool, error) {
	if err := d.Build(); err != nil {
		return false, err
	}
	_, ok := d.index[id]
	return ok, nil
}

// RecordsFor returns the records for id in source order, or nil.
func (d *Database) RecordsFor(id string) ([]Record, error) {
	if err := d.Build(); err != nil {
		return nil, err
	}
	return d.index[id], nil
}

// DOIs returns every indexed DOI in sorted order.
func (d *Database) DOIs() ([]string, error) {
	if err := d.Build(); err != nil {
		return nil, err
	}
	dois := append([]string(nil), d.order...)
	sort.Strings(dois)
	return dois, nil
}

// Len returns the number of distinct DOIs.
func (d *Database) Len() (int, error) {
	if err := d.Build(); err != nil {
		return 0, err
	}
	return len(d.index), nil
}

// Each calls fn for every DOI in first-seen source order with its records.
// It stops at the first error fn returns.
func (d *Database) Each(fn func(doi string, records []Record) error) error {
	if err := d.Build(); err != nil {
		return err
	}
	for _, key := range d.order {
		if err := fn(key, d.index[key]); err != nil {
			return err
		}
	}
	return nil
}
