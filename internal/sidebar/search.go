package sidebar

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultQuietPeriod is the debounce window after the last keystroke.
const DefaultQuietPeriod = 600 * time.Millisecond

// SearchResult is one navigable search match.
type SearchResult struct {
	NoteID  string
	Label   string
	Href    string
	Preview string
}

// SearchFunc runs a search. It is called from a tea.Cmd goroutine.
type SearchFunc func(ctx context.Context, q ParsedQuery) ([]SearchResult, error)

// SearchDebounceMsg is sent when a quiet period ends.
type SearchDebounceMsg struct {
	Version int
}

// SearchResultsMsg carries the outcome of one submitted search.
type SearchResultsMsg struct {
	Seq     int
	Query   ParsedQuery
	Results []SearchResult
	Err     error
}

// Debouncer turns keystrokes into at most one search per quiet period.
//
// Each Input restarts the quiet period; only the tick whose version is
// current fires. A firing while a request is in flight is skipped and
// remembered; when that request resolves, one fresh search is issued if
// the input changed meanwhile. Late responses are recognized by sequence
// number and dropped. The in-flight request's context is cancelled only by
// Close or Retarget.
//
// All methods run on the update loop; only the SearchFunc runs elsewhere.
type Debouncer struct {
	quiet  time.Duration
	search SearchFunc
	logger *slog.Logger

	raw     string
	version int // bumped by Input
	fired   int // last version that reached Fire

	seq         int // sequence of the latest submitted request
	inflight    bool
	inflightRaw string
	deferred    bool
	cancel      context.CancelFunc

	query   ParsedQuery
	results []SearchResult

	gen uint64 // bumped on every observable change
}

// NewDebouncer creates a debouncer. A non-positive quiet uses
// DefaultQuietPeriod.
func NewDebouncer(quiet time.Duration, search SearchFunc, logger *slog.Logger) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Debouncer{quiet: quiet, search: search, logger: logger}
}

// Input records the latest raw query and restarts the quiet period.
func (d *Debouncer) Input(raw string) tea.Cmd {
	d.raw = raw
	d.version++
	d.gen++
	version := d.version
	return tea.Tick(d.quiet, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Version: version}
	})
}

// Fire handles the end of a quiet period.
func (d *Debouncer) Fire(msg SearchDebounceMsg) tea.Cmd {
	if msg.Version != d.version {
		return nil
	}
	d.fired = msg.Version
	d.gen++

	if d.inflight {
		d.deferred = true
		return nil
	}
	return d.submit()
}

// submit parses the raw input and starts a request. Blank queries are
// no-ops that keep the previous results.
func (d *Debouncer) submit() tea.Cmd {
	q := ParseQuery(d.raw)
	if q.Query == "" || d.search == nil {
		return nil
	}

	d.seq++
	d.inflight = true
	d.inflightRaw = d.raw
	d.deferred = false
	d.gen++

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	seq, search := d.seq, d.search
	return func() tea.Msg {
		results, err := search(ctx, q)
		return SearchResultsMsg{Seq: seq, Query: q, Results: results, Err: err}
	}
}

// Resolve applies a finished request. Messages from superseded or
// abandoned requests are ignored.
func (d *Debouncer) Resolve(msg SearchResultsMsg) tea.Cmd {
	if !d.inflight || msg.Seq != d.seq {
		return nil
	}
	d.inflight = false
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++

	if msg.Err != nil {
		d.logger.Warn("search failed", "query", msg.Query.Query, "err", msg.Err)
		d.results = nil
	} else {
		d.results = msg.Results
	}
	d.query = msg.Query

	if d.deferred {
		d.deferred = false
		if d.raw != d.inflightRaw {
			return d.submit()
		}
	}
	return nil
}

// Retarget swaps the search function, e.g. after a space switch. Any
// in-flight request is aborted and the results cleared.
func (d *Debouncer) Retarget(search SearchFunc) {
	d.abort()
	d.search = search
	d.results = nil
	d.query = ParsedQuery{}
}

// Close aborts any in-flight request.
func (d *Debouncer) Close() {
	d.abort()
}

func (d *Debouncer) abort() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.inflight = false
	d.deferred = false
	d.seq++ // orphan any late response
	d.gen++
}

// Raw returns the latest input.
func (d *Debouncer) Raw() string { return d.raw }

// Pending reports whether a request is in flight.
func (d *Debouncer) Pending() bool { return d.inflight }

// Debouncing reports whether a quiet period is running.
func (d *Debouncer) Debouncing() bool { return d.version != d.fired }

// Results returns the last applied result set.
func (d *Debouncer) Results() []SearchResult { return d.results }

// Query returns the parsed query of the last applied results.
func (d *Debouncer) Query() ParsedQuery { return d.query }

// Generation changes whenever any observable state changes.
func (d *Debouncer) Generation() uint64 { return d.gen }
