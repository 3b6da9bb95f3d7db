package main

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"lox/interpreter-go/log"
	"lox/interpreter-go/pkg/driver"
)

const replPrompt = "> "

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// runRepl runs an interactive session until the user exits with Ctrl+C on an
// empty line or Ctrl+D. Globals persist across lines. Print output is
// buffered per line and flushed through the terminal program, since writing
// to stdout directly would fight the renderer.
func runRepl(logger log.Logger) error {
	p := tea.NewProgram(newReplModel(logger))
	_, err := p.Run()
	return err
}

const defaultWidth = 80

// replModel is the Bubble Tea model for the prompt.
type replModel struct {
	input      textinput.Model
	session    *driver.Session
	printed    *bytes.Buffer
	logger     log.Logger
	history    []string
	historyIdx int
	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTabText string
	width      int
	quitting   bool
}

func newReplModel(logger log.Logger) replModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(replPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	printed := new(bytes.Buffer)
	return replModel{
		input:   ti,
		session: driver.NewSession(printed),
		printed: printed,
		logger:  logger,
		width:   defaultWidth,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(replPrompt) - 2
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render("Type a statement or expression; Ctrl+D exits"))
		b.WriteString("\n")
	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
		b.WriteString("\n")
	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m replModel) handleKey(msg tea.KeyMsg) (replModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = len(m.history)
		m.refreshMatches()
		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refreshMatches()
			return m, nil
		}
		return m.executeInput()

	case tea.KeyTab:
		return m.handleTab(1)

	case tea.KeyShiftTab:
		return m.handleTab(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(len(m.preTabText))
			m.refreshMatches()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tabActive = false
	m.historyIdx = len(m.history)
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()
	return m, cmd
}

func (m replModel) handleTab(step int) (replModel, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.matches = nil
		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		if step > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	}
	m.replaceCurrentWord(m.matches[m.suggIdx].Str)
	return m, nil
}

func (m *replModel) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	m.input.SetValue(newInput)
	m.input.SetCursor(m.wordStart + len(replacement))
	m.wordEnd = m.wordStart + len(replacement)
}

func (m *replModel) refreshMatches() {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())
	m.wordStart, m.wordEnd = start, end

	if word == "" {
		m.matches = nil
		m.suggIdx = -1
		return
	}
	m.matches = fuzzy.Find(word, completionCandidates(m.session))
	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m replModel) executeInput() (replModel, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.tabActive = false
	m.matches = nil
	m.history = append(m.history, input)
	m.historyIdx = len(m.history)

	m.logger.Debug("repl eval", "input", input)

	cmds := []tea.Cmd{
		tea.Println(promptStyle.Render(replPrompt) + inputStyle.Render(input)),
	}

	echo, hasEcho, diags := m.session.EvalLine(input)

	// Flush whatever print statements wrote before any error surfaced.
	if printed := strings.TrimSuffix(m.printed.String(), "\n"); printed != "" {
		cmds = append(cmds, tea.Println(printed))
	}
	m.printed.Reset()

	if len(diags) != 0 {
		lines := make([]string, len(diags))
		for i, d := range diags {
			lines[i] = errorStyle.Render(d.String())
		}
		cmds = append(cmds, tea.Println(strings.Join(lines, "\n")))
		return m, tea.Sequence(cmds...)
	}
	if hasEcho {
		cmds = append(cmds, tea.Println(resultStyle.Render(echo)))
	}
	return m, tea.Sequence(cmds...)
}

func (m replModel) historyPrev() (replModel, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--
		line := m.history[m.historyIdx]
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
		m.refreshMatches()
	}
	return m, nil
}

func (m replModel) historyNext() (replModel, tea.Cmd) {
	if m.historyIdx < len(m.history)-1 {
		m.historyIdx++
		line := m.history[m.historyIdx]
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	} else {
		m.historyIdx = len(m.history)
		m.input.SetValue("")
	}
	m.refreshMatches()
	return m, nil
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit the terminal width. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(matches fuzzy.Matches, suggIdx int, tabActive bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder
	used := 0
	for i, match := range matches {
		style := suggestionStyle
		if tabActive && i == suggIdx {
			style = selectedStyle
		}
		rendered := style.Render(match.Str)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += lipgloss.Width(sep)
		}
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(rendered)
		used += entryWidth
	}
	return b.String()
}
