package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

const aiSample = `async function fetchUserData(userId) {
    try {
        const response = await fetch('/api/users/' + userId);
        const data = await response.json();
        return data;
    } catch (error) {
        console.error('Error fetching user:', error);
        throw error;
    }
}
`

func setupModel(t *testing.T) Model {
	t.Helper()
	scanner := scan.New(detect.New(), nil)
	report := scanner.Run([]scan.FileInput{
		{Path: "src/a.js", Content: aiSample},
		{Path: "src/b.py", Content: "x = 1\n"},
	}, nil)

	m := New(&report)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func TestModelInit(t *testing.T) {
	m := setupModel(t)

	if m.fileIndex != 0 {
		t.Errorf("expected fileIndex 0, got %d", m.fileIndex)
	}
	if len(m.visible) != 2 {
		t.Errorf("expected 2 visible files, got %d", len(m.visible))
	}
	if len(m.lines) == 0 {
		t.Error("expected detail lines to be rendered")
	}
}

func TestNavigation(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = newM.(Model)
	if m.fileIndex != 1 {
		t.Errorf("expected fileIndex 1 after down, got %d", m.fileIndex)
	}

	// Past the end — stays put
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = newM.(Model)
	if m.fileIndex != 1 {
		t.Errorf("expected fileIndex 1 at end, got %d", m.fileIndex)
	}

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = newM.(Model)
	if m.fileIndex != 0 {
		t.Errorf("expected fileIndex 0 after up, got %d", m.fileIndex)
	}
}

func TestDetailScrolling(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'J'}})
	m = newM.(Model)
	if m.scrollOffset != 1 {
		t.Errorf("expected scrollOffset 1, got %d", m.scrollOffset)
	}

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'K'}})
	m = newM.(Model)
	if m.scrollOffset != 0 {
		t.Errorf("expected scrollOffset 0, got %d", m.scrollOffset)
	}
}

func TestScrollResetsOnFileChange(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'J'}})
	m = newM.(Model)
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = newM.(Model)
	if m.scrollOffset != 0 {
		t.Errorf("expected scrollOffset reset on file change, got %d", m.scrollOffset)
	}
}

func TestAIOnlyFilter(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = newM.(Model)
	if !m.aiOnly {
		t.Error("expected aiOnly to be enabled")
	}
	for _, i := range m.visible {
		if m.report.Results[i].Status.String() != "ai-generated" {
			t.Errorf("non-AI file %s visible with filter on", m.report.Results[i].Path)
		}
	}

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = newM.(Model)
	if len(m.visible) != 2 {
		t.Errorf("expected filter off to restore 2 files, got %d", len(m.visible))
	}
}

func TestViewRenders(t *testing.T) {
	m := setupModel(t)

	view := m.View()
	if view == "" {
		t.Fatal("empty view")
	}
	if !strings.Contains(view, "a.js") {
		t.Error("view missing file name")
	}
	if !strings.Contains(view, "File 1/2") {
		t.Error("view missing status bar position")
	}
}

func TestViewBeforeWindowSize(t *testing.T) {
	scanner := scan.New(detect.New(), nil)
	report := scanner.Run(nil, nil)
	m := New(&report)
	if m.View() != "Loading..." {
		t.Errorf("expected loading placeholder, got %q", m.View())
	}
}

func TestHelpToggle(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newM.(Model)
	if !m.showHelp {
		t.Error("expected help to be shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help view missing title")
	}
}

func TestQuit(t *testing.T) {
	m := setupModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Error("expected quit message")
	} else if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestRenderDetailSections(t *testing.T) {
	scanner := scan.New(detect.New(), nil)
	report := scanner.Run([]scan.FileInput{
		{Path: "cfg.js", Content: `const API_KEY = "supersecretvalue123";` + "\n"},
	}, nil)

	lines := renderDetail(&report.Results[0])
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Detection", "Style features", "Security issues"} {
		if !strings.Contains(joined, want) {
			t.Errorf("detail missing %q section", want)
		}
	}
}
