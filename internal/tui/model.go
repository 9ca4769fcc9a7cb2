package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/hrcounter/internal/assets"
	"github.com/garrettladley/hrcounter/internal/display"
	"github.com/garrettladley/hrcounter/internal/hr"
	"github.com/garrettladley/hrcounter/internal/tui/components/footer"
	"github.com/garrettladley/hrcounter/internal/tui/components/gauge"
	"github.com/garrettladley/hrcounter/internal/tui/components/status"
	"github.com/garrettladley/hrcounter/internal/tui/theme"
	"github.com/garrettladley/hrcounter/internal/uiloop"
)

var _ tea.Model = (*Model)(nil)

type Deps struct {
	Ctx    context.Context
	Slot   *hr.Slot
	Text   TextFeed
	Pauses PauseFeed
	States StateFeed
	Loop   *uiloop.Loop
	Icons  *assets.Cache
	Source string
	// Icon names the status icon shown next to the readout.
	Icon string
	// Palette colors the gauge; nil falls back to the theme accent.
	Palette *display.Palette
	HRHigh  int
}

type Model struct {
	ready          bool
	viewportWidth  int
	viewportHeight int
	theme          theme.Theme
	deps           Deps

	text      string
	bpm       *int
	indicator status.Indicator
	icons     []IconInfo
	iconsErr  error
}

func New(deps Deps) Model {
	return Model{
		theme:     theme.New(),
		deps:      deps,
		indicator: status.Indicator{Source: deps.Source},
	}
}

func (m *Model) Init() tea.Cmd {
	ctx := m.deps.Ctx
	return tea.Batch(
		ListenTextCmd(ctx, m.deps.Text),
		ListenPauseCmd(ctx, m.deps.Pauses),
		ListenStateCmd(ctx, m.deps.States),
		LoadIconsCmd(ctx, m.deps.Loop, m.deps.Icons, false),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := m.deps.Ctx

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, LoadIconsCmd(ctx, m.deps.Loop, m.deps.Icons, true)
		case "space":
			m.indicator.Paused = false
		}

	case TextMsg:
		m.text = msg.Text
		if s, ok := m.deps.Slot.Load(); ok {
			bpm := s.BPM
			m.bpm = &bpm
		}
		return m, ListenTextCmd(ctx, m.deps.Text)

	case PausedMsg:
		m.indicator.Paused = true
		return m, ListenPauseCmd(ctx, m.deps.Pauses)

	case StateMsg:
		m.indicator.State = msg.To
		return m, ListenStateCmd(ctx, m.deps.States)

	case IconsMsg:
		m.icons, m.iconsErr = msg.Icons, msg.Err
	}

	return m, nil
}

func (m *Model) View() tea.View {
	view := tea.NewView("")
	view.AltScreen = true
	view.BackgroundColor = m.theme.Background()

	if !m.ready {
		return view
	}

	readout := lipgloss.JoinVertical(
		lipgloss.Center,
		m.GaugeView(),
		"",
		RenderMarkup(m.text),
		"",
		m.indicator.Render(),
	)

	body := lipgloss.Place(
		m.viewportWidth,
		max(m.viewportHeight-2, 0),
		lipgloss.Center,
		lipgloss.Center,
		readout,
	)

	view.SetContent(body + "\n" + footer.New(m.IconsView(), m.viewportWidth).Render())
	return view
}

func (m *Model) GaugeView() string {
	return gauge.New(m.bpm, m.deps.HRHigh, "BPM", m.gaugeColor(),
		gauge.WithTextColor(m.theme.Foreground()),
	).Render()
}

func (m *Model) gaugeColor() color.Color {
	if m.bpm == nil || m.deps.Palette == nil {
		return m.theme.Accent()
	}
	c := m.deps.Palette.At(*m.bpm)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// IconsView lists the cached icons and marks the configured status icon.
func (m *Model) IconsView() string {
	muted := m.theme.Muted()
	if m.iconsErr != nil {
		return muted.Render("icons unavailable")
	}
	if len(m.icons) == 0 {
		return muted.Render("no icons")
	}

	names := make([]string, len(m.icons))
	for i, icon := range m.icons {
		label := fmt.Sprintf("%s %dx%d", icon.Name, icon.Bounds.Dx(), icon.Bounds.Dy())
		if icon.Name == m.deps.Icon {
			names[i] = m.theme.TextAccent().Render(label)
			continue
		}
		names[i] = muted.Render(label)
	}
	return strings.Join(names, muted.Render(" · "))
}
