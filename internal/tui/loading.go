package tui

import (
	"time"

	"bom-dashboard/internal/dashboard"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]
}

// SpinnerTickMsg triggers a re-render while the controller is loading.
type SpinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

func (m *Model) loading() bool {
	switch m.view.Stage {
	case dashboard.StageReady, dashboard.StageError:
		return m.view.Meta.Loading
	}
	return true
}

// handleSpinnerTick picks up controller state changes and re-schedules
// itself while a load is pending.
func (m *Model) handleSpinnerTick() (tea.Model, tea.Cmd) {
	m.refresh()
	if m.loading() {
		return m, spinnerTick()
	}
	return m, nil
}
