// Package tui provides an interactive terminal browser for ranked
// note relationships, built on bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notelink/internal/core/domain"
	"github.com/custodia-labs/notelink/internal/core/ports/driving"
)

// Ports holds the driving ports the TUI depends on.
type Ports struct {
	Notes driving.NoteService
	Links driving.LinkService
}

// view is the screen the app is currently showing.
type view int

const (
	viewLoading view = iota
	viewList
	viewDetail
	viewError
)

// Styles.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	detailStyle = lipgloss.NewStyle().Padding(1, 2)
)

// resultsMsg delivers the ranking outcome to the update loop.
type resultsMsg struct {
	results []domain.LinkResult
	err     error
}

// candidateItem adapts a link result to the bubbles list interface.
type candidateItem struct {
	result domain.LinkResult
	title  string
}

func (i candidateItem) Title() string {
	return fmt.Sprintf("%s %s", scoreStyle.Render(fmt.Sprintf("%.3f", i.result.Score)), i.title)
}

func (i candidateItem) Description() string {
	return fmt.Sprintf("%s  semantic %.2f  entity %.2f  tag %.2f",
		i.result.Decision, i.result.Features.Semantic, i.result.Features.Entity, i.result.Features.Tag)
}

func (i candidateItem) FilterValue() string { return i.title }

// App is the bubbletea model for the relationship browser.
type App struct {
	ports    *Ports
	ctx      context.Context
	sourceID string
	limit    int

	view     view
	list     list.Model
	selected *candidateItem
	err      error
	width    int
	height   int
}

// NewApp creates the TUI app for one source note.
func NewApp(ports *Ports, sourceID string, limit int) (*App, error) {
	if ports == nil || ports.Links == nil || ports.Notes == nil {
		return nil, errors.New("tui: note and link services are required")
	}
	if limit <= 0 {
		limit = 20
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Related notes"
	l.SetShowStatusBar(false)

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		sourceID: sourceID,
		limit:    limit,
		view:     viewLoading,
		list:     l,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) {
	if ctx != nil {
		a.ctx = ctx
	}
}

// Init starts the initial ranking load.
func (a *App) Init() tea.Cmd {
	return a.loadResults
}

// loadResults ranks the candidates and resolves their titles.
func (a *App) loadResults() tea.Msg {
	results, err := a.ports.Links.RankCandidates(a.ctx, a.sourceID, domain.RankOptions{
		Limit: a.limit,
	})
	return resultsMsg{results: results, err: err}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(msg.Width, msg.Height-2)

	case resultsMsg:
		if msg.err != nil {
			a.err = msg.err
			a.view = viewError
			return a, nil
		}
		items := make([]list.Item, 0, len(msg.results))
		for _, r := range msg.results {
			items = append(items, candidateItem{result: r, title: a.noteTitle(r.CandidateID)})
		}
		a.list.SetItems(items)
		a.view = viewList

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if a.view == viewDetail {
				a.view = viewList
				a.selected = nil
				return a, nil
			}
			return a, tea.Quit
		case "esc":
			if a.view == viewDetail {
				a.view = viewList
				a.selected = nil
				return a, nil
			}
		case "enter":
			if a.view == viewList {
				if item, ok := a.list.SelectedItem().(candidateItem); ok {
					a.selected = &item
					a.view = viewDetail
				}
				return a, nil
			}
		}
	}

	if a.view == viewList {
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View renders the current screen.
func (a *App) View() string {
	switch a.view {
	case viewLoading:
		return detailStyle.Render("Ranking candidates...")
	case viewError:
		return detailStyle.Render(errorStyle.Render(fmt.Sprintf("Error: %v", a.err)) + "\n\nPress q to quit.")
	case viewDetail:
		return a.detailView()
	default:
		return a.list.View()
	}
}

// detailView renders the evidence for the selected candidate.
func (a *App) detailView() string {
	if a.selected == nil {
		return ""
	}
	r := a.selected.result

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.selected.title))
	b.WriteString(fmt.Sprintf("\n\n%s %.3f (%s)\n", labelStyle.Render("Score:"), r.Score, r.Decision))
	b.WriteString(fmt.Sprintf("%s semantic %.2f  entity %.2f  tag %.2f\n",
		labelStyle.Render("Features:"), r.Features.Semantic, r.Features.Entity, r.Features.Tag))

	if len(r.Explain.SharedEntities) > 0 {
		b.WriteString("\n" + labelStyle.Render("Shared entities:") + "\n")
		for _, e := range r.Explain.SharedEntities {
			b.WriteString(fmt.Sprintf("  %s (%.2f)\n", e.Name, e.Weight))
		}
	}
	if len(r.Explain.SharedTags) > 0 {
		b.WriteString("\n" + labelStyle.Render("Shared tags:") + " " + strings.Join(r.Explain.SharedTags, ", ") + "\n")
	}
	if len(r.Matches) > 0 {
		b.WriteString("\n" + labelStyle.Render("Evidence:") + "\n")
		for _, m := range r.Matches {
			b.WriteString(fmt.Sprintf("  [%.3f] %s\n", m.Similarity, m.TargetText))
		}
	}

	b.WriteString("\n" + labelStyle.Render("esc: back  q: close"))
	return detailStyle.Render(b.String())
}

// noteTitle resolves a candidate's display title, falling back to the ID.
func (a *App) noteTitle(id string) string {
	note, err := a.ports.Notes.Get(a.ctx, id)
	if err != nil || note.Title == "" {
		return id
	}
	return note.Title
}
