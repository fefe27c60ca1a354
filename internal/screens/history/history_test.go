package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/edututor/internal/router"
	"github.com/abhisek/edututor/internal/store"
)

type fakeRepo struct {
	events   []store.LLMEvent
	usage    []store.PurposeUsage
	queryErr error
	opts     store.QueryOpts
}

func (f *fakeRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error { return nil }

func (f *fakeRepo) QueryLLMEvents(_ context.Context, opts store.QueryOpts) ([]store.LLMEvent, error) {
	f.opts = opts
	return f.events, f.queryErr
}

func (f *fakeRepo) GetLLMEvent(context.Context, int) (*store.LLMEvent, error) { return nil, nil }

func (f *fakeRepo) LLMUsageByPurpose(context.Context) ([]store.PurposeUsage, error) {
	return f.usage, nil
}

func (f *fakeRepo) LLMUsageByModel(context.Context) ([]store.ModelUsage, error) { return nil, nil }

func sampleEvents() []store.LLMEvent {
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	return []store.LLMEvent{
		{ID: 2, Sequence: 2, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openrouter", Model: "llama", Purpose: "quiz", InputTokens: 120, OutputTokens: 300,
			LatencyMs: 900, Success: true, ResponseBody: "Q1: What is a cell?"}},
		{ID: 1, Sequence: 1, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openrouter", Model: "llama", Purpose: "simplify", LatencyMs: 50,
			Success: false, ErrorMessage: "rate limited"}},
	}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
	require.True(t, s.loaded)
}

func TestLoadsEvents(t *testing.T) {
	repo := &fakeRepo{
		events: sampleEvents(),
		usage:  []store.PurposeUsage{{Purpose: "quiz", Calls: 1, InputTokens: 120, OutputTokens: 300}},
	}
	s := New(repo)
	assert.Contains(t, s.View(120, 30), "Loading history")

	load(t, s)
	assert.Equal(t, pageSize, repo.opts.Limit)

	view := s.View(120, 30)
	assert.Contains(t, view, "quiz: 1 calls, 420 tokens")
	assert.Contains(t, view, "simplify")
	assert.Contains(t, view, "err")
}

func TestExpandShowsDetails(t *testing.T) {
	s := New(&fakeRepo{events: sampleEvents()})
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, s.expanded[1])
	assert.Contains(t, s.View(120, 30), "rate limited")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected, "selection stays on the last row")
}

func TestEmptyAndError(t *testing.T) {
	s := New(&fakeRepo{})
	load(t, s)
	assert.Contains(t, s.View(120, 30), "No LLM calls yet.")

	s = New(&fakeRepo{queryErr: errors.New("disk gone")})
	load(t, s)
	assert.Contains(t, s.View(120, 30), "disk gone")
}

func TestEscPops(t *testing.T) {
	s := New(&fakeRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
