package simtui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Flogas0833/synchronization-problems/pkg/scenario"
)

// RunModel displays a scenario run: a spinner while goroutines are working,
// a progress bar filled by completed work units, and one line per unit.
type RunModel struct {
	err       error
	title     string
	completed []string
	errored   []string
	spinner   spinner.Model
	progress  progress.Model
	total     int
	width     int
	height    int
	mu        sync.RWMutex
	done      bool
}

func NewRunModel(title string) *RunModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	s := spinner.New()
	s.Style = spinnerStyle

	return &RunModel{
		title:     title,
		completed: []string{},
		errored:   []string{},
		spinner:   s,
		progress:  p,
		mu:        sync.RWMutex{},
	}
}

func (m *RunModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.progress.SetPercent(0))
}

//nolint:ireturn // Third-party.
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case scenario.EventSetTotal:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.total = int(msg)

	case scenario.EventProgress:
		m.mu.Lock()
		defer m.mu.Unlock()

		icon := checkMark
		if msg.Err != nil {
			m.errored = append(m.errored, msg.Item)
			icon = errorMark
		}

		m.completed = append(m.completed, msg.Item)
		completedCount := len(m.completed)
		progressCmd := m.progress.SetPercent(float64(completedCount) / float64(m.total))

		if m.total == completedCount {
			m.done = true

			return m, tea.Sequence(
				tea.Printf("%s %s", icon, msg.Item),
				teaQuit(),
			)
		}

		return m, tea.Batch(
			progressCmd,
			tea.Printf("%s %s", icon, msg.Item),
		)

	case scenario.EventRunDone:
		if msg.Err == nil {
			return m, nil
		}

		m.mu.Lock()
		defer m.mu.Unlock()

		m.err = msg.Err
		m.done = true

		return m, teaQuit()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case progress.FrameMsg:
		newModel, cmd := m.progress.Update(msg)
		if newModel, ok := newModel.(progress.Model); ok {
			m.progress = newModel
		}

		return m, cmd

	case error:
		m.mu.Lock()
		defer m.mu.Unlock()

		m.err = msg

		return m, teaQuit()
	}

	return m, nil
}

func (m *RunModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width)
	}

	completedCount := len(m.completed)

	if m.done {
		if len(m.errored) > 0 {
			return doneStyle.Render(fmt.Sprintf("Done, with %d of %d units failing.\n",
				len(m.errored), completedCount))
		}

		return doneStyle.Render(fmt.Sprintf("Done! Completed %d units.\n", completedCount))
	}

	w := lipgloss.Width(strconv.Itoa(m.total))
	unitCount := fmt.Sprintf(" %*d/%*d", w, completedCount, w, m.total)

	prog := m.progress.View()
	progRendered := progressStyle.Render(prog + unitCount)
	progCellsRemaining := max(0, m.width-lipgloss.Width(progRendered))
	gap := strings.Repeat(" ", progCellsRemaining)
	progOut := progRendered + gap + "\n"

	spin := m.spinner.View() + " "
	cellsAvail := max(0, m.width-lipgloss.Width(spin))

	title := currentItemStyle.Render(m.title)
	info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render("Running " + title)

	cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
	spinGap := strings.Repeat(" ", cellsRemaining)

	return spin + info + spinGap + "\n" + progOut
}
