package browse

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobscout/jobscout/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type aggregateDoneMsg struct {
	result model.AggregateResult
	err    error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	providers int
	searchFn  func(ctx context.Context) (model.AggregateResult, error)
	frame     int
	result    model.AggregateResult
	err       error
	done      bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doSearch(), m.tick())
}

func (m loaderModel) doSearch() tea.Cmd {
	searchFn := m.searchFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		result, err := searchFn(ctx)
		return aggregateDoneMsg{result: result, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case aggregateDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Searching %d providers...\n", spinner, m.providers)
}

// RunLoader shows a spinner while the aggregation runs. It renders inline
// (no alt screen).
func RunLoader(providers int, searchFn func(ctx context.Context) (model.AggregateResult, error)) (model.AggregateResult, error) {
	m := loaderModel{
		providers: providers,
		searchFn:  searchFn,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return model.AggregateResult{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
