package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sailshr/wow/internal/config"
	"github.com/sailshr/wow/internal/progress"
	"github.com/sailshr/wow/internal/remote"
	"github.com/sailshr/wow/internal/router"
	"github.com/sailshr/wow/internal/screen"
	"github.com/sailshr/wow/internal/screens/dashboard"
	sess "github.com/sailshr/wow/internal/session"
	"github.com/sailshr/wow/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router     *router.Router
	band       string
	employeeID string
	width      int
	height     int
}

// newAppModel creates a new AppModel rooted at the dashboard.
func newAppModel(cfg config.Config, store *progress.Store) AppModel {
	client := remote.NewClient(cfg.ServerURL, cfg.Timeout)
	ctrl := sess.New(store, client, cfg.EmployeeID, cfg.Band)
	dash := dashboard.New(store, client, ctrl, cfg.Band, cfg.EmployeeID)
	return AppModel{
		router:     router.New(dash),
		band:       cfg.Band,
		employeeID: cfg.EmployeeID,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.band, m.employeeID, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hinted, ok := active.(screen.KeyHintProvider); ok {
		if hints := hinted.KeyHints(); hints != nil {
			footerHints = hints
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(cfg config.Config, store *progress.Store) error {
	p := tea.NewProgram(newAppModel(cfg, store))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
