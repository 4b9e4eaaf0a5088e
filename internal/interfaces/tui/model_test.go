package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbetancur/amg-desk-ai/internal/application/store"
	"github.com/rbetancur/amg-desk-ai/internal/domain/request"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/api"
)

type stubLister struct {
	result *api.ListResult
}

func (s *stubLister) List(ctx context.Context, limit, offset int) (*api.ListResult, error) {
	return s.result, nil
}

func testModel(t *testing.T, items []request.Request, page api.Page) Model {
	t.Helper()
	st := store.New(&stubLister{result: &api.ListResult{Items: items, Pagination: page}}, nil)
	return NewModel(st, "jdoe", 50)
}

func pending() *int {
	v := 1
	return &v
}

func TestModelShowsLoadedRequests(t *testing.T) {
	m := testModel(t, nil, api.Page{Limit: 50})

	require.NoError(t, m.store.Load(context.Background(), 50, 0))

	updated, cmd := m.Update(<-m.updates)
	m = updated.(Model)
	assert.NotNil(t, cmd, "model must keep listening for snapshots")
	assert.False(t, m.loading)

	next, _ := m.Update(stateMsg(store.State{
		Requests: []request.Request{{
			ID:          7,
			CategoryID:  300,
			StatusID:    pending(),
			Description: "cannot log into the domain",
		}},
		Pagination: api.Page{Total: 1, Limit: 50},
	}))
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "jdoe")
	assert.Contains(t, view, "Domain Account Password Change")
	assert.Contains(t, view, "Pending")
	assert.Contains(t, view, "cannot log into the domain")
	assert.Contains(t, view, "1 total")
}

func TestModelEmptyState(t *testing.T) {
	m := testModel(t, nil, api.Page{Limit: 50})
	m.loading = false

	assert.Contains(t, m.View(), "No requests yet")
}

func TestQuitDetachesFromStore(t *testing.T) {
	m := testModel(t, nil, api.Page{Limit: 50})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestNextPageOnlyWhenMoreExists(t *testing.T) {
	m := testModel(t, nil, api.Page{Limit: 50})
	m.loading = false
	m.state.Pagination = api.Page{Total: 10, Limit: 50, HasMore: false}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(Model)
	assert.Zero(t, m.offset)
	assert.Nil(t, cmd)

	m.state.Pagination.HasMore = true
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(Model)
	assert.Equal(t, 50, m.offset)
	assert.True(t, m.loading)
}

func TestPrevPageFloorsAtZero(t *testing.T) {
	m := testModel(t, nil, api.Page{Limit: 50})
	m.loading = false

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(Model)
	assert.Zero(t, m.offset)
	assert.Nil(t, cmd)

	m.offset = 30
	m.state.Pagination.Limit = 50
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(Model)
	assert.Zero(t, m.offset)
}

func TestExcerptTruncates(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "multi line", excerpt("multi\nline", 20))

	long := excerpt("abcdefghijklmnopqrstuvwxyz", 10)
	assert.Equal(t, "abcdefghi…", long)
}
