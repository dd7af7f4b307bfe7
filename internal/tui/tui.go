// Package tui implements the Bubble Tea browser over scan results.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

// Model is the top-level Bubble Tea model for vibeguard.
type Model struct {
	report *scan.Report

	// UI state
	width  int
	height int

	// Visible file indexes into report.Results, after filtering
	visible   []int
	fileIndex int // position within visible

	// Detail viewport
	scrollOffset int
	lines        []string

	// Filters
	aiOnly bool

	// Help
	showHelp bool
}

// New creates a new TUI model from a scan report.
func New(report *scan.Report) Model {
	m := Model{report: report}
	m.applyFilter()
	return m
}

// applyFilter rebuilds the visible list and clamps the selection.
func (m *Model) applyFilter() {
	m.visible = m.visible[:0]
	for i, f := range m.report.Results {
		if m.aiOnly && f.Status != model.StatusAIGenerated {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.fileIndex >= len(m.visible) {
		m.fileIndex = len(m.visible) - 1
	}
	if m.fileIndex < 0 {
		m.fileIndex = 0
	}
	m.scrollOffset = 0
	m.updateLines()
}

func (m *Model) selected() *scan.FileReport {
	if len(m.visible) == 0 {
		return nil
	}
	return &m.report.Results[m.visible[m.fileIndex]]
}

func (m *Model) updateLines() {
	f := m.selected()
	if f == nil {
		m.lines = nil
		return
	}
	m.lines = renderDetail(f)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.fileIndex < len(m.visible)-1 {
				m.fileIndex++
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.Up):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.ScrollDown):
			if m.scrollOffset < len(m.lines)-1 {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.ScrollUp):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.Top):
			m.fileIndex = 0
			m.scrollOffset = 0
			m.updateLines()

		case key.Matches(msg, keys.AIOnly):
			m.aiOnly = !m.aiOnly
			m.applyFilter()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	fileListWidth := m.fileListWidth()
	detailWidth := m.width - fileListWidth - 1

	fileList := m.renderFileList(fileListWidth, m.height-2)
	detail := m.renderDetailView(detailWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", detail)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) fileListWidth() int {
	maxLen := 20
	for _, i := range m.visible {
		if n := len(m.report.Results[i].Path); n > maxLen {
			maxLen = n
		}
	}
	w := maxLen + 8 // padding + confidence column
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	for pos, i := range m.visible {
		f := m.report.Results[i]
		name := f.Path

		maxName := width - 10
		if maxName > 0 && len(name) > maxName {
			name = "…" + name[len(name)-maxName+1:]
		}

		line := fmt.Sprintf("%-*s %3.0f%%", maxName, name, f.AIConfidence*100)

		var style lipgloss.Style
		switch {
		case pos == m.fileIndex:
			style = fileItemSelectedStyle
		case f.Status == model.StatusAIGenerated:
			style = fileItemAIStyle
		default:
			style = fileItemStyle
		}

		b.WriteString(style.Width(width - 4).Render(line))
		if pos < len(m.visible)-1 {
			b.WriteByte('\n')
		}
	}

	if len(m.visible) == 0 {
		b.WriteString(labelStyle.Render("no files match filter"))
	}

	return fileListStyle.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderDetailView(width, height int) string {
	f := m.selected()
	innerHeight := height - 2
	if f == nil {
		return detailViewStyle.Width(width).Height(innerHeight).Render("No results")
	}

	header := fileHeaderStyle.Render(f.Path)

	visibleLines := innerHeight - 2
	if visibleLines < 1 {
		visibleLines = 1
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')

	end := m.scrollOffset + visibleLines
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(m.lines[i])
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return detailViewStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf(" File %d/%d", m.fileIndex+1, len(m.visible))
	if m.aiOnly {
		left += "  [AI only]"
	}

	verdict := passedStyle.Render("PASSED")
	if m.report.Blocked {
		verdict = blockedStyle.Render("BLOCKED")
	} else if len(m.report.Warnings) > 0 {
		verdict = warnStyle.Render("WARNINGS")
	}

	right := fmt.Sprintf("%d AI / %d files  %.1f%% AI  ", m.report.AIDetected,
		m.report.FilesScanned, m.report.AIPercentage)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - lipgloss.Width(verdict) - 2
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right + verdict + " ")
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("vibeguard — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Previous file"},
		{"↓/j", "Next file"},
		{"PgUp/K", "Scroll detail up"},
		{"PgDn/J", "Scroll detail down"},
		{"g", "First file"},
		{"a", "Toggle AI-only filter"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run starts the TUI application.
func Run(report *scan.Report) error {
	m := New(report)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
