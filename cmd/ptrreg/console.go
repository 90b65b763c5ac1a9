package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inputEchoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// historyLimit bounds the scrollback kept on screen.
const historyLimit = 16

const helpText = `commands:
  register <addr> [tag]    register a single-owner address
  counted <addr> [tag]     add a counted reference
  pin <addr> [tag]         pin an address
  verify <addr> [tag]      check an address is live
  unregister <addr> [tag]  release a registration
  invalidate <addr> [tag]  force-remove an address
  cast <wrapped> <tag>     rewrap under a related tag
  subtag <sub> <super>     define a subtag edge
  rmsubtag <sub>           remove a subtag edge
  subtags                  list subtag edges
  list [tag]               list live registrations
  dissect <wrapped> [tag]  diagnose a wrapped value
  info <wrapped>           show registration state
  compare <a> <b>          compare two wrapped values
  parse <text>             parse wrapped text
  help                     show this help
  q                        quit`

type consoleEntry struct {
	input  string
	output string
	err    error
}

type consoleModel struct {
	reg      *registry.Registry
	manifest string
	input    textinput.Model
	history  []consoleEntry
}

func newConsoleModel(reg *registry.Registry, manifest string) *consoleModel {
	ti := textinput.New()
	ti.Placeholder = "help"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &consoleModel{
		reg:      reg,
		manifest: manifest,
		input:    ti,
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "q" || line == "quit" || line == "exit" {
				return m, tea.Quit
			}
			out, err := execute(m.reg, line)
			m.history = append(m.history, consoleEntry{input: line, output: out, err: err})
			if len(m.history) > historyLimit {
				m.history = m.history[len(m.history)-historyLimit:]
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pointer Console"))
	if m.manifest != "" {
		b.WriteString(" ")
		b.WriteString(m.manifest)
	}
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(inputEchoStyle.Render("> " + e.input))
		b.WriteString("\n")
		if e.err != nil {
			b.WriteString(errorStyle.Render(e.err.Error()))
		} else if e.output != "" {
			b.WriteString(resultStyle.Render(e.output))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • help commands • ctrl+c quit"))

	return b.String()
}

// execute runs one console command against the registry and returns its
// printable result.
func execute(reg *registry.Registry, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "register", "counted", "pin":
		if len(args) < 1 || len(args) > 2 {
			return "", fmt.Errorf("usage: %s <addr> [tag]", cmd)
		}
		addr, err := ptrreg.ParseAddr(args[0])
		if err != nil {
			return "", err
		}
		tag := argTag(args, 1)
		var p ptrreg.Pointer
		switch cmd {
		case "register":
			p, err = reg.Register(addr, tag)
		case "counted":
			p, err = reg.RegisterCounted(addr, tag)
		case "pin":
			p, err = reg.Pin(addr, tag)
		}
		if err != nil {
			return "", err
		}
		return p.String(), nil

	case "verify", "unregister", "invalidate":
		if len(args) < 1 || len(args) > 2 {
			return "", fmt.Errorf("usage: %s <addr> [tag]", cmd)
		}
		addr, err := ptrreg.ParseAddr(args[0])
		if err != nil {
			return "", err
		}
		tag := argTag(args, 1)
		switch cmd {
		case "verify":
			err = reg.Verify(addr, tag)
		case "unregister":
			err = reg.Unregister(addr, tag)
		case "invalidate":
			err = reg.Invalidate(addr, tag)
		}
		if err != nil {
			return "", err
		}
		return "ok", nil

	case "cast":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: cast <wrapped> <tag>")
		}
		p, err := ptrreg.Parse(args[0])
		if err != nil {
			return "", err
		}
		casted, err := reg.Cast(p, ptrreg.Tag(args[1]))
		if err != nil {
			return "", err
		}
		return casted.String(), nil

	case "subtag":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: subtag <sub> <super>")
		}
		if err := reg.DefineSubtag(ptrreg.Tag(args[0]), ptrreg.Tag(args[1])); err != nil {
			return "", err
		}
		return "defined", nil

	case "rmsubtag":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: rmsubtag <sub>")
		}
		reg.RemoveSubtag(ptrreg.Tag(args[0]))
		return "removed", nil

	case "subtags":
		edges := reg.Subtags()
		if len(edges) == 0 {
			return "no subtag edges", nil
		}
		lines := make([]string, len(edges))
		for i, e := range edges {
			lines[i] = fmt.Sprintf("%s -> %s", e.Sub, e.Super)
		}
		return strings.Join(lines, "\n"), nil

	case "list":
		if len(args) > 1 {
			return "", fmt.Errorf("usage: list [tag]")
		}
		live := reg.Enumerate(argTag(args, 0))
		if len(live) == 0 {
			return "no live registrations", nil
		}
		lines := make([]string, len(live))
		for i, p := range live {
			lines[i] = p.String()
		}
		return strings.Join(lines, "\n"), nil

	case "dissect":
		if len(args) < 1 || len(args) > 2 {
			return "", fmt.Errorf("usage: dissect <wrapped> [tag]")
		}
		p, err := ptrreg.Parse(args[0])
		if err != nil {
			return "", err
		}
		d := reg.Dissect(p, argTag(args, 1))
		return fmt.Sprintf("addr=%x tag=%s relation=%s status=%s",
			d.Addr, orNone(string(d.Tag)), d.Relation, d.Status), nil

	case "info":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: info <wrapped>")
		}
		p, err := ptrreg.Parse(args[0])
		if err != nil {
			return "", err
		}
		i := reg.Info(p)
		return fmt.Sprintf("registration=%s tag=%s registered=%s match=%s",
			i.Registration, orNone(string(i.Tag)), orNone(string(i.RegisteredTag)), i.Match), nil

	case "compare":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: compare <a> <b>")
		}
		a, err := ptrreg.Parse(args[0])
		if err != nil {
			return "", err
		}
		b, err := ptrreg.Parse(args[1])
		if err != nil {
			return "", err
		}
		return ptrreg.Compare(a, b).String(), nil

	case "parse":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: parse <text>")
		}
		p, err := ptrreg.Parse(args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("addr=%x tag=%s", p.Addr, orNone(string(p.Tag))), nil

	case "help":
		return helpText, nil

	default:
		return "", fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func argTag(args []string, i int) ptrreg.Tag {
	if i < len(args) {
		return ptrreg.Tag(args[i])
	}
	return ptrreg.NoTag
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func runConsole(reg *registry.Registry, manifest string) error {
	p := tea.NewProgram(newConsoleModel(reg, manifest), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
