package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// File is one changed file shown by the pager.
type File struct {
	Path string
	Diff string
}

// Model pages through the diffs of a plan preview: left/right switch
// files, the viewport scrolls within one.
type Model struct {
	files    []File
	index    int
	viewport viewport.Model
	ready    bool
}

// NewModel creates a pager over the given files.
func NewModel(files []File) Model {
	return Model{files: files}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 3
		}
		m.viewport.SetContent(Colorize(m.current().Diff))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "right", "l", "n":
			return m.jump(m.index + 1), nil
		case "left", "h", "p":
			return m.jump(m.index - 1), nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// jump switches to another file and resets the scroll position.
func (m Model) jump(index int) Model {
	if index < 0 || index >= len(m.files) || index == m.index {
		return m
	}
	m.index = index
	if m.ready {
		m.viewport.SetContent(Colorize(m.current().Diff))
		m.viewport.GotoTop()
	}
	return m
}

func (m Model) current() File { return m.files[m.index] }

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	header := fmt.Sprintf("%s  %s",
		titleStyle.Render(m.current().Path),
		countStyle.Render(fmt.Sprintf("%d/%d", m.index+1, len(m.files))))
	help := helpStyle.Render("left/right files  up/down scroll  q quit")
	return header + "\n" + m.viewport.View() + "\n" + help
}

// Colorize styles a unified diff line by line: additions green, removals
// red, hunk headers blue.
func Colorize(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = fileStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removeStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Show runs the pager until the user quits.
func Show(files []File) error {
	if len(files) == 0 {
		return nil
	}
	p := tea.NewProgram(NewModel(files), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
