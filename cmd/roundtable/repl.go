package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"roundtable/internal"
)

var (
	accentColor = lipgloss.Color("#3B82F6")
	outputColor = lipgloss.Color("#10B981")
	errorColor  = lipgloss.Color("#EF4444")
	mutedColor  = lipgloss.Color("#6B7280")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	outputStyle = lipgloss.NewStyle().
			Foreground(outputColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

// bufferPrinter collects what print writes during one line
type bufferPrinter struct {
	strings.Builder
}

func (b *bufferPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(&b.Builder, a...)
}

type replModel struct {
	textInput  textinput.Model
	interp     *internal.Interpreter
	out        *bufferPrinter
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	quitting   bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
	Clear key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous line"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next line"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
}

func (c *cli) newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "let answer = 42;"
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 72
	ti.PromptStyle = promptStyle
	ti.Prompt = c.cfg.Prompt

	out := &bufferPrinter{}
	return replModel{
		textInput:  ti,
		interp:     c.interpreter(out),
		out:        out,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.textInput.Width = msg.Width - len(m.textInput.Prompt) - 1
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Clear):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// evaluate runs one line in the session, definitions outlive the line
func (m replModel) evaluate(input string) (string, bool) {
	m.out.Reset()
	err := m.interp.Run(input)
	output := strings.TrimSuffix(m.out.String(), "\n")
	if err == nil {
		return output, false
	}
	if output != "" {
		output += "\n"
	}
	return output + err.Error(), true
}

func (m replModel) View() string {
	if m.quitting {
		return mutedStyle.Render("bye") + "\n"
	}

	var b strings.Builder
	for _, entry := range m.history {
		b.WriteString(mutedStyle.Render(m.textInput.Prompt) + entry.input + "\n")
		if entry.output == "" {
			continue
		}
		if entry.isErr {
			b.WriteString(errorStyle.Render(entry.output) + "\n")
		} else {
			b.WriteString(outputStyle.Render(entry.output) + "\n")
		}
	}

	b.WriteString(m.textInput.View() + "\n")
	b.WriteString(mutedStyle.Render("↑/↓ history  ctrl+l clear  ctrl+d quit"))
	return b.String()
}

// repl starts the terminal UI, or a plain line loop when stdin is not a terminal
func (c *cli) repl() int {
	if f, ok := c.stdin.(*os.File); !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return c.lineREPL()
	}

	p := tea.NewProgram(c.newREPLModel(), tea.WithInput(c.stdin), tea.WithOutput(c.stdout))
	if _, err := p.Run(); err != nil {
		c.color.Println(c.color.Red(err))
		return exitRuntime
	}
	return exitOK
}

// lineREPL runs every input line in one session and keeps going after errors
func (c *cli) lineREPL() int {
	interp := c.interpreter(stdPrinter{out: c.stdout})
	scanner := bufio.NewScanner(c.stdin)
	for {
		fmt.Fprint(c.stdout, c.cfg.Prompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := interp.Run(line); err != nil {
			c.report(err)
		}
	}
	fmt.Fprintln(c.stdout)

	if err := scanner.Err(); err != nil {
		c.color.Println(c.color.Red(err))
		return exitNoInput
	}
	return exitOK
}
