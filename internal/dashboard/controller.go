// Package dashboard is the state machine behind the Bills of Mortality
// dashboard. It turns tab, filter and page changes into exactly one fetch
// each, makes sure only the newest response is applied and keeps the
// address bar in sync.
package dashboard

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"bom-dashboard/internal/api"
	"bom-dashboard/internal/assert"
	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/components/chrono"
	"bom-dashboard/internal/components/telemetry"
	"bom-dashboard/internal/pagination"
	"bom-dashboard/internal/urlstate"

	"golang.org/x/sync/errgroup"
)

const (
	report_controller_load_static = "controller.load-static"
	report_controller_load        = "controller.load"
)

const (
	DefaultSlowThreshold = 15 * time.Second
	DefaultStaticTimeout = 30 * time.Second
)

var (
	ErrNotReady      = errors.New("dashboard is not ready")
	ErrStaticTimeout = errors.New("loading reference data timed out")
)

type Stage int

const (
	StageStarting Stage = iota
	StageParsing
	StageLoadingStatic
	StageSettingUp
	StageReady
	StageError
)

func (s Stage) String() string {
	switch s {
	case StageStarting:
		return "starting"
	case StageParsing:
		return "parsing"
	case StageLoadingStatic:
		return "loading_static"
	case StageSettingUp:
		return "setting_up"
	case StageReady:
		return "ready"
	case StageError:
		return "error"
	}
	return "unknown"
}

// DataSource is the API the controller loads from, *api.Client implements it.
type DataSource interface {
	Parishes(ctx context.Context) (api.Payload, error)
	AllCauses(ctx context.Context) (api.Payload, error)
	AllChristenings(ctx context.Context) (api.Payload, error)
	Bills(ctx context.Context, f bom.FilterState, req pagination.Request) (api.Payload, error)
	Deaths(ctx context.Context, f bom.FilterState, req pagination.Request) (api.Payload, error)
	Christenings(ctx context.Context, f bom.FilterState, req pagination.Request) (api.Payload, error)
	Statistics(ctx context.Context, kind string, f bom.FilterState, req pagination.Request) (api.Payload, error)
	ParishYearly(ctx context.Context, parish string) (api.Payload, error)
	CancelAllRequests()
	ClearCache(endpoint string) int
}

// History receives the query string after every successful change.
type History interface {
	Push(query url.Values)
}

type Options struct {
	PageSize int
	// SlowThreshold is how long a load may run before it is flagged slow.
	SlowThreshold time.Duration
	// StaticTimeout bounds loading the reference lists during Init.
	StaticTimeout time.Duration
	History       History
	Clock         chrono.API
	Telemetry     telemetry.API
}

// Meta is the status of the current load.
type Meta struct {
	Loading bool
	Slow    bool
	Error   string
}

// Reference holds the lists filters are picked from.
type Reference struct {
	Parishes     []bom.Record
	Causes       []bom.Record
	Christenings []bom.Record
}

type Controller struct {
	src     DataSource
	clock   chrono.API
	tel     telemetry.API
	history History
	opts    Options

	mu         sync.Mutex
	stage      Stage
	initError  string
	filters    bom.FilterState
	tabs       bom.TabSelection
	pages      *pagination.Engine
	rows       map[bom.SecondaryTab][]bom.Record
	reference  Reference
	meta       Meta
	sort       bom.SortState
	generation uint64

	// yearly holds the parish-yearly series by parish name, prefetching
	// marks the names being fetched in the background.
	yearly      map[string][]bom.Record
	prefetching map[string]bool
	prefetches  sync.WaitGroup
}

func New(src DataSource, opts Options) *Controller {
	assert.NotNil(src)
	assert.NotNil(opts.Clock)
	assert.NotNil(opts.Telemetry)

	if opts.PageSize == 0 {
		opts.PageSize = bom.DefaultPageSize
	}
	if opts.SlowThreshold <= 0 {
		opts.SlowThreshold = DefaultSlowThreshold
	}
	if opts.StaticTimeout <= 0 {
		opts.StaticTimeout = DefaultStaticTimeout
	}
	assert.InRange(opts.PageSize, bom.MinPageSize, bom.MaxPageSize)

	return &Controller{
		src:     src,
		clock:   opts.Clock,
		tel:     telemetry.NewScopedAPI("dashboard", opts.Telemetry),
		history: opts.History,
		opts:    opts,
		stage:   StageStarting,
		filters: bom.DefaultFilters(),
		tabs:    bom.DefaultTabs(),
		pages:   pagination.NewEngine(opts.PageSize),
		rows:    make(map[bom.SecondaryTab][]bom.Record),

		yearly:      make(map[string][]bom.Record),
		prefetching: make(map[string]bool),
	}
}

func (c *Controller) setStage(stage Stage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stage = stage
}

func (c *Controller) fail(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stage = StageError
	c.initError = message
}

// Init reads the initial state from query, loads the reference lists and
// performs the first data load. It only returns an error when the
// controller ends up in StageError, a failed first load is reported
// through Meta like any other load.
func (c *Controller) Init(ctx context.Context, query url.Values) error {
	c.setStage(StageParsing)
	state := urlstate.Parse(query)
	c.mu.Lock()
	c.filters = state.Filters
	c.tabs = state.Tabs
	c.mu.Unlock()

	c.setStage(StageLoadingStatic)
	ref, err := c.loadStatic(ctx)
	if err != nil {
		if errors.Is(err, ErrStaticTimeout) {
			c.fail(MessageStaticTimeout)
		} else {
			c.fail(api.UserMessage(err))
		}
		c.tel.ReportBroken(report_controller_load_static, err)
		return err
	}

	c.mu.Lock()
	c.reference = ref
	c.stage = StageSettingUp
	c.mu.Unlock()

	_ = c.load(ctx, state.Page, true)

	c.setStage(StageReady)
	return nil
}

// loadStatic fetches the reference lists in parallel, racing them against
// the static timeout. A list that fails to load is left empty.
func (c *Controller) loadStatic(ctx context.Context) (Reference, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	timer := c.clock.AfterFunc(c.opts.StaticTimeout, func() {
		cancel(ErrStaticTimeout)
	})
	defer timer.Stop()

	var ref Reference
	group, groupCtx := errgroup.WithContext(ctx)
	load := func(name string, fetch func(context.Context) (api.Payload, error), dst *[]bom.Record) {
		group.Go(func() error {
			payload, err := fetch(groupCtx)
			if err != nil {
				if cause := context.Cause(ctx); cause != nil {
					return cause
				}
				c.tel.ReportWarning(report_controller_load_static, name, err)
				return nil
			}
			*dst = payload.Rows
			return nil
		})
	}
	load("parishes", c.src.Parishes, &ref.Parishes)
	load("causes", c.src.AllCauses, &ref.Causes)
	load("christenings", c.src.AllChristenings, &ref.Christenings)

	done := make(chan error, 1)
	go func() {
		done <- group.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return Reference{}, err
		}
		return ref, nil
	case <-ctx.Done():
		return Reference{}, context.Cause(ctx)
	}
}
