// Package tui is a terminal front end for the dashboard controller.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"bom-dashboard/internal/api"
	"bom-dashboard/internal/assert"
	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/cache"
	"bom-dashboard/internal/components/chrono"
	"bom-dashboard/internal/dashboard"
	"bom-dashboard/internal/parishes"
	"bom-dashboard/lib/textutil"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type action int

const (
	actionNone action = iota
	actionQuit
	actionHelp
	actionNextPage
	actionPrevPage
	actionFirstPage
	actionLastPage
	actionNextPrimary
	actionNextSecondary
	actionPrevSecondary
	actionSortLeft
	actionSortRight
	actionSort
	actionParish
	actionDetail
	actionResetFilters
	actionPageSizeUp
	actionPageSizeDown
	actionReload
	actionBack
	actionForward
)

type initDoneMsg struct{ err error }

type actionDoneMsg struct{ err error }

type detailLoadedMsg struct {
	parish string
	rows   []bom.Record
	err    error
}

// Model is the bubbletea model of the browser. The controller does all
// loading, the model only renders its snapshots and turns keys into
// controller actions.
type Model struct {
	ctx     context.Context
	ctrl    *dashboard.Controller
	history *dashboard.MemoryHistory
	query   url.Values

	keys KeyMap
	help help.Model

	table       table.Model
	columns     []string
	sortColumn  int
	parishInput textinput.Model
	parishMode  bool
	// detail is the parish whose yearly series is shown below the table.
	detail     string
	detailRows []bom.Record
	// resolveParish remembers what each typed name resolved to, the
	// reference list does not change after Init.
	resolveParish func(context.Context, string) (string, error)

	view   dashboard.View
	status string
	width  int
	height int
}

// NewModel wraps ctrl, which must push its history to history. query is
// the initial state, as it would appear in a link.
func NewModel(ctx context.Context, ctrl *dashboard.Controller, history *dashboard.MemoryHistory, query url.Values) *Model {
	assert.NotNil(ctrl)
	assert.NotNil(history)

	parishInput := textinput.New()
	parishInput.Placeholder = "Parish name..."
	parishInput.CharLimit = 80

	t := table.New(table.WithFocused(true), table.WithHeight(10))
	t.SetStyles(tableStyles())

	m := &Model{
		ctx:         ctx,
		ctrl:        ctrl,
		history:     history,
		query:       query,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		table:       t,
		parishInput: parishInput,
		width:       100,
		height:      30,
	}
	m.resolveParish = cache.Memoize(
		cache.New[string](chrono.NewStandardImpl()),
		func(_ context.Context, input string) (string, error) {
			name, ok := parishes.Best(input, parishes.Names(m.view.Reference.Parishes))
			if !ok {
				return "", fmt.Errorf("no parish matches %q", input)
			}
			return name, nil
		},
		textutil.NormalizeName,
		0,
	)
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd(), spinnerTick())
}

func (m *Model) initCmd() tea.Cmd {
	ctx, ctrl, query := m.ctx, m.ctrl, m.query
	return func() tea.Msg {
		return initDoneMsg{err: ctrl.Init(ctx, query)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	case initDoneMsg:
		m.refresh()
		return m, nil
	case actionDoneMsg:
		m.refresh()
		m.setStatus(msg.err)
		return m, nil
	case detailLoadedMsg:
		m.setStatus(msg.err)
		if msg.err == nil {
			m.detail, m.detailRows = msg.parish, msg.rows
		}
		return m, nil
	case SpinnerTickMsg:
		return m.handleSpinnerTick()
	case tea.KeyMsg:
		if m.parishMode {
			return m.handleParishInput(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) keyAction(msg tea.KeyMsg) action {
	k := m.keys
	bindings := []struct {
		binding key.Binding
		action  action
	}{
		{k.ForceQuit, actionQuit},
		{k.Quit, actionQuit},
		{k.Help, actionHelp},
		{k.NextPage, actionNextPage},
		{k.PrevPage, actionPrevPage},
		{k.FirstPage, actionFirstPage},
		{k.LastPage, actionLastPage},
		{k.NextPrimary, actionNextPrimary},
		{k.NextSecondary, actionNextSecondary},
		{k.PrevSecondary, actionPrevSecondary},
		{k.SortColumnLeft, actionSortLeft},
		{k.SortColumnRight, actionSortRight},
		{k.Sort, actionSort},
		{k.Parish, actionParish},
		{k.Detail, actionDetail},
		{k.ResetFilters, actionResetFilters},
		{k.PageSizeUp, actionPageSizeUp},
		{k.PageSizeDown, actionPageSizeDown},
		{k.Reload, actionReload},
		{k.Back, actionBack},
		{k.Forward, actionForward},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return actionNone
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.view
	ctrl := m.ctrl

	switch m.keyAction(msg) {
	case actionQuit:
		return m, tea.Quit
	case actionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case actionNextPage:
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.ChangePage(ctx, v.Page+1)
		})
	case actionPrevPage:
		if v.Page <= 1 {
			return m, nil
		}
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.ChangePage(ctx, v.Page-1)
		})
	case actionFirstPage:
		if v.Page == 1 {
			return m, nil
		}
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.ChangePage(ctx, 1)
		})
	case actionLastPage:
		if v.Page >= v.LastPage {
			return m, nil
		}
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.ChangePage(ctx, v.LastPage)
		})
	case actionNextPrimary:
		next := cycle(bom.PrimaryTabs, v.Tabs.Primary, 1)
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.SetPrimaryTab(ctx, next)
		})
	case actionNextSecondary, actionPrevSecondary:
		step := 1
		if m.keyAction(msg) == actionPrevSecondary {
			step = -1
		}
		next := cycle(bom.SecondaryTabs, v.Tabs.Secondary, step)
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.SetSecondaryTab(ctx, next)
		})
	case actionSortLeft:
		m.sortColumn = max(m.sortColumn-1, 0)
		m.rebuildTable()
		return m, nil
	case actionSortRight:
		m.sortColumn = min(m.sortColumn+1, max(len(m.columns)-1, 0))
		m.rebuildTable()
		return m, nil
	case actionSort:
		if len(m.columns) == 0 {
			return m, nil
		}
		m.setStatus(ctrl.Sort(m.columns[m.sortColumn]))
		m.refresh()
		return m, nil
	case actionParish:
		m.parishMode = true
		m.parishInput.SetValue("")
		return m, m.parishInput.Focus()
	case actionDetail:
		return m, m.showDetail()
	case actionResetFilters:
		return m, m.dispatch(ctrl.ResetFilters)
	case actionPageSizeUp, actionPageSizeDown:
		size := v.PageSize + 10
		if m.keyAction(msg) == actionPageSizeDown {
			size = v.PageSize - 10
		}
		size = bom.ClampPageSize(size)
		if size == v.PageSize {
			return m, nil
		}
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.SetPageSize(ctx, size)
		})
	case actionReload:
		return m, m.dispatch(ctrl.Reload)
	case actionBack:
		query, ok := m.history.Back()
		if !ok {
			return m, nil
		}
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.PopState(ctx, query)
		})
	case actionForward:
		query, ok := m.history.Forward()
		if !ok {
			return m, nil
		}
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.PopState(ctx, query)
		})
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// showDetail toggles the yearly series of the parish on the selected row.
// Series prefetched by the controller show at once, others are fetched.
func (m *Model) showDetail() tea.Cmd {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.view.Rows) {
		return nil
	}
	parish := dashboard.RowParish(m.view.Rows[cursor])
	if parish == "" {
		m.status = "this row has no parish"
		return nil
	}
	if parish == m.detail {
		m.detail, m.detailRows = "", nil
		return nil
	}

	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		rows, err := ctrl.LoadParishYearly(ctx, parish)
		return detailLoadedMsg{parish: parish, rows: rows, err: err}
	}
}

func (m *Model) handleParishInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.parishMode = false
		m.parishInput.Blur()
		return m, nil
	case "enter":
		m.parishMode = false
		m.parishInput.Blur()
		input := m.parishInput.Value()
		filters := m.view.Filters

		if input == "" {
			filters = filters.WithParishes()
		} else {
			name, err := m.resolveParish(m.ctx, input)
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			filters = filters.WithParishes(append(slices.Clone(filters.Parishes), name)...)
		}
		ctrl := m.ctrl
		return m, m.dispatch(func(ctx context.Context) error {
			return ctrl.ApplyFilters(ctx, filters)
		})
	}

	var cmd tea.Cmd
	m.parishInput, cmd = m.parishInput.Update(msg)
	return m, cmd
}

// dispatch runs fn off the update loop and keeps the spinner going while
// the controller loads.
func (m *Model) dispatch(fn func(context.Context) error) tea.Cmd {
	m.status = ""
	ctx := m.ctx
	run := func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
	return tea.Batch(run, spinnerTick())
}

func (m *Model) setStatus(err error) {
	if err == nil {
		m.status = ""
		return
	}
	// load errors are already part of the summary
	if api.UserMessage(err) == m.view.Meta.Error {
		return
	}
	m.status = err.Error()
}

func (m *Model) refresh() {
	m.view = m.ctrl.Snapshot()
	m.rebuildTable()
}

func cycle[T comparable](values []T, current T, step int) T {
	i := slices.Index(values, current)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+step)%n+n)%n]
}
