package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notelink/internal/core/domain"
)

// stubNotes resolves titles from a fixed map.
type stubNotes struct {
	titles map[string]string
}

func (s *stubNotes) Save(_ context.Context, _ *domain.Note) error { return nil }
func (s *stubNotes) List(_ context.Context) ([]domain.Note, error) {
	return nil, nil
}
func (s *stubNotes) Delete(_ context.Context, _ string) error { return nil }
func (s *stubNotes) ImportFile(_ context.Context, _ string) (*domain.Note, error) {
	return nil, nil
}

func (s *stubNotes) Get(_ context.Context, id string) (*domain.Note, error) {
	title, ok := s.titles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Note{ID: id, Title: title}, nil
}

// stubLinks returns canned ranking results.
type stubLinks struct {
	results []domain.LinkResult
	err     error
}

func (s *stubLinks) ScorePair(_ context.Context, _, _ string, _ domain.ScoreOptions) (*domain.LinkResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubLinks) RankCandidates(_ context.Context, _ string, _ domain.RankOptions) ([]domain.LinkResult, error) {
	return s.results, s.err
}

func newTestApp(t *testing.T, links *stubLinks) *App {
	t.Helper()
	app, err := NewApp(&Ports{
		Notes: &stubNotes{titles: map[string]string{"tgt": "Deploy runbook"}},
		Links: links,
	}, "src", 10)
	require.NoError(t, err)
	return app
}

func sampleResult() domain.LinkResult {
	return domain.LinkResult{
		CandidateID: "tgt",
		Score:       0.91,
		Decision:    domain.LinkHard,
		Features:    domain.FeatureScores{Semantic: 1, Entity: 0.8, Tag: 0.6},
		Explain: domain.ExplainRecord{
			SharedTags:     []string{"ops"},
			SharedEntities: []domain.SharedEntity{{Name: "kubernetes", Weight: 0.9}},
		},
		Matches: []domain.Match{
			{Similarity: 0.97, TargetText: "roll out in stages"},
		},
	}
}

func TestNewApp_RequiresPorts(t *testing.T) {
	_, err := NewApp(nil, "src", 10)
	assert.Error(t, err)

	_, err = NewApp(&Ports{Notes: &stubNotes{}}, "src", 10)
	assert.Error(t, err)
}

func TestApp_LoadingView(t *testing.T) {
	app := newTestApp(t, &stubLinks{})

	assert.Contains(t, app.View(), "Ranking candidates")
}

func TestApp_ResultsShowList(t *testing.T) {
	app := newTestApp(t, &stubLinks{results: []domain.LinkResult{sampleResult()}})

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)
	model, _ = app.Update(app.loadResults())
	app = model.(*App)

	view := app.View()
	assert.Contains(t, view, "Deploy runbook")
	assert.Contains(t, view, "0.910")
}

func TestApp_EnterShowsDetail(t *testing.T) {
	app := newTestApp(t, &stubLinks{results: []domain.LinkResult{sampleResult()}})

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)
	model, _ = app.Update(app.loadResults())
	app = model.(*App)
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)

	view := app.View()
	assert.Contains(t, view, "Deploy runbook")
	assert.Contains(t, view, "kubernetes")
	assert.Contains(t, view, "roll out in stages")
}

func TestApp_EscReturnsToList(t *testing.T) {
	app := newTestApp(t, &stubLinks{results: []domain.LinkResult{sampleResult()}})

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)
	model, _ = app.Update(app.loadResults())
	app = model.(*App)
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)

	assert.Nil(t, app.selected)
	assert.Equal(t, viewList, app.view)
}

func TestApp_QuitFromList(t *testing.T) {
	app := newTestApp(t, &stubLinks{results: []domain.LinkResult{sampleResult()}})

	model, _ := app.Update(app.loadResults())
	app = model.(*App)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_RankError(t *testing.T) {
	app := newTestApp(t, &stubLinks{err: errors.New("store unavailable")})

	model, _ := app.Update(app.loadResults())
	app = model.(*App)

	assert.Equal(t, viewError, app.view)
	assert.Contains(t, app.View(), "store unavailable")
}

func TestApp_TitleFallsBackToID(t *testing.T) {
	result := sampleResult()
	result.CandidateID = "unknown"
	app := newTestApp(t, &stubLinks{results: []domain.LinkResult{result}})

	assert.Equal(t, "unknown", app.noteTitle("unknown"))
}
