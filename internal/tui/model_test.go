package tui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"bom-dashboard/internal/api"
	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/cache"
	"bom-dashboard/internal/components/chrono"
	"bom-dashboard/internal/components/telemetry"
	"bom-dashboard/internal/dashboard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

const pageSize = 10

type fakeServer struct {
	mu      sync.Mutex
	paths   []string
	queries []url.Values
	// yearly lists the parishes whose yearly series was requested, those
	// requests are kept out of paths.
	yearly []string
}

func (s *fakeServer) last() (string, url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paths[len(s.paths)-1], s.queries[len(s.queries)-1]
}

// ServeHTTP serves 25 rows for every table, two parishes and a two year
// series for every parish.
func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("type") == "parish-yearly" {
		parish := r.URL.Query().Get("parish")
		s.mu.Lock()
		s.yearly = append(s.yearly, parish)
		s.mu.Unlock()
		fmt.Fprintf(w, `[{"parish": %q, "year": 1665, "burials": 120}, {"parish": %q, "year": 1666, "burials": 40}]`, parish, parish)
		return
	}

	s.mu.Lock()
	s.paths = append(s.paths, r.URL.Path)
	s.queries = append(s.queries, r.URL.Query())
	s.mu.Unlock()

	switch r.URL.Path {
	case "/parishes":
		fmt.Fprint(w, `[{"canonical_name": "St Mary Woolnoth"}, {"canonical_name": "Allhallows Barking"}]`)
		return
	case "/list-deaths", "/list-christenings":
		fmt.Fprint(w, `[]`)
		return
	}

	page := 1
	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		page, _ = strconv.Atoi(strings.TrimPrefix(cursor, "c"))
	} else if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		page = offset/pageSize + 1
	}

	var rows []string
	for i := (page - 1) * pageSize; i < min(page*pageSize, 25); i++ {
		rows = append(rows, fmt.Sprintf(`{"parish": "parish %02d", "totalrecords": 25}`, i))
	}
	hasMore := page*pageSize < 25
	next := "null"
	if hasMore {
		next = fmt.Sprintf(`"c%d"`, page+1)
	}
	fmt.Fprintf(w, `{"data": [%s], "next_cursor": %s, "has_more": %t}`, strings.Join(rows, ","), next, hasMore)
}

func newTestModel(t *testing.T) (*Model, *fakeServer) {
	t.Helper()
	srv := &fakeServer{}
	httpServer := httptest.NewServer(srv)
	t.Cleanup(httpServer.Close)

	clock := chrono.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tel := telemetry.NewRecorder()
	client := api.New(api.Options{
		BaseURL:   httpServer.URL,
		Timeout:   5 * time.Second,
		Cache:     cache.New[api.Payload](clock),
		Telemetry: tel,
	})
	history := dashboard.NewMemoryHistory()
	ctrl := dashboard.New(client, dashboard.Options{
		PageSize:  pageSize,
		History:   history,
		Clock:     clock,
		Telemetry: tel,
	})

	m := NewModel(context.Background(), ctrl, history, nil)
	m.Update(m.initCmd()())
	return m, srv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its messages back into m. Spinner ticks are
// dropped so loads settle without re-scheduling.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			run(t, m, sub)
		}
	case SpinnerTickMsg:
	default:
		m.Update(msg)
	}
}

func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	run(t, m, cmd)
}

func TestKeyActions(t *testing.T) {
	m := &Model{keys: DefaultKeyMap()}
	cases := []struct {
		msg    tea.KeyMsg
		action action
	}{
		{runes("q"), actionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, actionQuit},
		{runes("n"), actionNextPage},
		{tea.KeyMsg{Type: tea.KeyPgDown}, actionNextPage},
		{runes("p"), actionPrevPage},
		{runes("g"), actionFirstPage},
		{tea.KeyMsg{Type: tea.KeyHome}, actionFirstPage},
		{runes("G"), actionLastPage},
		{tea.KeyMsg{Type: tea.KeyEnd}, actionLastPage},
		{runes("d"), actionDetail},
		{runes("b"), actionNextPrimary},
		{tea.KeyMsg{Type: tea.KeyTab}, actionNextSecondary},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, actionPrevSecondary},
		{runes("s"), actionSort},
		{runes("/"), actionParish},
		{runes("x"), actionResetFilters},
		{runes("+"), actionPageSizeUp},
		{runes("-"), actionPageSizeDown},
		{runes("["), actionBack},
		{runes("]"), actionForward},
		{runes("z"), actionNone},
	}
	for _, tc := range cases {
		require.Equal(t, tc.action, m.keyAction(tc.msg), tc.msg.String())
	}
}

func TestInitRendersFirstPage(t *testing.T) {
	m, srv := newTestModel(t)

	require.Equal(t, dashboard.StageReady, m.view.Stage)
	view := m.View()
	require.Contains(t, view, "Showing 1 to 10 of 25 records")
	require.Contains(t, view, "Showing page 1 of 3")
	require.Contains(t, view, "parish 00")

	path, query := srv.last()
	require.Equal(t, "/bills", path)
	require.Equal(t, "10", query.Get("limit"))
}

func TestPagingAndHistory(t *testing.T) {
	m, srv := newTestModel(t)

	press(t, m, runes("n"))
	require.Contains(t, m.View(), "Showing 11 to 20 of 25 records")
	_, query := srv.last()
	require.Equal(t, "c2", query.Get("cursor"))

	press(t, m, runes("["))
	require.Equal(t, 1, m.view.Page)

	press(t, m, runes("]"))
	require.Equal(t, 2, m.view.Page)
	_, query = srv.last()
	require.Equal(t, "10", query.Get("offset"))
}

func TestPrevPageOnFirstPageDoesNothing(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runes("p"))
	require.Nil(t, cmd)
}

func TestFirstAndLastPage(t *testing.T) {
	m, srv := newTestModel(t)

	// already on the first page
	_, cmd := m.Update(runes("g"))
	require.Nil(t, cmd)

	press(t, m, runes("G"))
	require.Equal(t, 3, m.view.Page)
	require.False(t, m.view.UseCursor)
	_, query := srv.last()
	require.Equal(t, "20", query.Get("offset"))
	require.Empty(t, query.Get("cursor"))
	require.Contains(t, m.View(), "Showing 21 to 25 of 25 records")

	_, cmd = m.Update(runes("G"))
	require.Nil(t, cmd)

	press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	require.Equal(t, 1, m.view.Page)
	require.True(t, m.view.UseCursor)
	_, query = srv.last()
	require.Empty(t, query.Get("offset"))

	// cursors are followed again after the first page
	press(t, m, runes("n"))
	_, query = srv.last()
	require.Equal(t, "c2", query.Get("cursor"))
}

func TestParishDetail(t *testing.T) {
	m, srv := newTestModel(t)
	m.ctrl.WaitPrefetch()

	srv.mu.Lock()
	prefetched := len(srv.yearly)
	srv.mu.Unlock()
	require.Equal(t, pageSize, prefetched)

	press(t, m, runes("d"))
	view := m.View()
	require.Contains(t, view, "parish 00 by year")
	require.Contains(t, view, "burials=120  parish=parish 00  year=1665")

	// the series was prefetched, showing it made no request
	srv.mu.Lock()
	require.Len(t, srv.yearly, prefetched)
	srv.mu.Unlock()

	press(t, m, runes("d"))
	require.NotContains(t, m.View(), "parish 00 by year")
}

func TestSecondaryTabSwitch(t *testing.T) {
	m, srv := newTestModel(t)

	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, bom.SecondaryDeaths, m.view.Tabs.Secondary)
	path, _ := srv.last()
	require.Equal(t, "/causes", path)
}

func TestParishFilter(t *testing.T) {
	m, srv := newTestModel(t)

	// the input's cursor blink commands are not needed here
	m.Update(runes("/"))
	require.True(t, m.parishMode)
	m.Update(runes("st mary wolnoth"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, m.parishMode)
	require.Equal(t, []string{"St Mary Woolnoth"}, m.view.Filters.Parishes)
	_, query := srv.last()
	require.Equal(t, "St Mary Woolnoth", query.Get("parish"))
	require.Contains(t, m.View(), "parishes St Mary Woolnoth")
}

func TestSortFromKeyboard(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, []string{"id", "parish", "totalrecords"}, m.columns)

	press(t, m, runes("l"))
	press(t, m, runes("s"))
	press(t, m, runes("s"))
	require.Equal(t, bom.SortState{Column: "parish", Desc: true}, m.view.Sort)
	require.Equal(t, "parish 09", m.view.Rows[0].Text("parish"))
}

func TestPageSizeKeys(t *testing.T) {
	m, srv := newTestModel(t)

	// already the smallest size
	_, cmd := m.Update(runes("-"))
	require.Nil(t, cmd)

	press(t, m, runes("+"))
	require.Equal(t, 20, m.view.PageSize)
	_, query := srv.last()
	require.Equal(t, "20", query.Get("limit"))
}

func TestUnknownParishShowsStatus(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runes("/"))
	m.Update(runes("zzzz"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Contains(t, m.View(), `no parish matches "zzzz"`)
	require.Empty(t, m.view.Filters.Parishes)
}
