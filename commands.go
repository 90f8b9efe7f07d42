package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/svmxplorer/internal/explorer"
	"github.com/jask/svmxplorer/internal/svm"
)

type Command struct {
	Name        string
	Usage       string
	Description string
	Run         func(m model, args []string) (model, tea.Cmd, error)
}

type CommandRegistry struct {
	commands []Command
	byName   map[string]Command
}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{byName: make(map[string]Command)}
	r.add(Command{
		Name:        "kernel",
		Usage:       "kernel <linear|poly|rbf>",
		Description: "Switch the kernel",
		Run: func(m model, args []string) (model, tea.Cmd, error) {
			word, err := oneArg(args)
			if err != nil {
				return m, nil, err
			}
			k, err := svm.ParseKernel(word)
			if err != nil {
				return m, nil, suggest(err, word, enumNames(svm.Kernels))
			}
			return m.dispatch(explorer.KernelSelected{Kernel: k})
		},
	})
	r.add(Command{
		Name:        "gamma",
		Usage:       "gamma <scale|auto|value>",
		Description: "Set gamma to a mode or an explicit value",
		Run: func(m model, args []string) (model, tea.Cmd, error) {
			word, err := oneArg(args)
			if err != nil {
				return m, nil, err
			}
			g, err := svm.ParseGamma(word)
			if err != nil {
				if _, numErr := strconv.ParseFloat(word, 64); numErr != nil {
					return m, nil, suggest(err, word, enumNames(svm.GammaModes))
				}
				return m, nil, err
			}
			if g.Mode == svm.GammaValue {
				return m.dispatch(explorer.ParamChanged{Param: explorer.ParamGamma, Value: g.Value})
			}
			return m.dispatch(explorer.GammaModeSelected{Mode: g.Mode})
		},
	})
	for _, p := range []explorer.Param{explorer.ParamC, explorer.ParamCoef0, explorer.ParamDegree} {
		d := explorer.DomainOf(p)
		r.add(Command{
			Name:        strings.ToLower(p.String()),
			Usage:       strings.ToLower(p.String()) + " <value>",
			Description: fmt.Sprintf("Set %s in [%g, %g]", p, d.Min, d.Max),
			Run: func(m model, args []string) (model, tea.Cmd, error) {
				word, err := oneArg(args)
				if err != nil {
					return m, nil, err
				}
				v, err := strconv.ParseFloat(word, 64)
				if err != nil {
					return m, nil, fmt.Errorf("%s: %q is not a number", p, word)
				}
				return m.dispatch(explorer.ParamChanged{Param: p, Value: v})
			},
		})
	}
	r.add(Command{
		Name:        "add",
		Usage:       "add <a|b> <x> <y>",
		Description: "Add a point to a class",
		Run: func(m model, args []string) (model, tea.Cmd, error) {
			if len(args) != 3 {
				return m, nil, fmt.Errorf("usage: add <a|b> <x> <y>")
			}
			class, err := explorer.ParseClass(args[0])
			if err != nil {
				return m, nil, err
			}
			x, errX := strconv.ParseFloat(args[1], 64)
			y, errY := strconv.ParseFloat(args[2], 64)
			if errX != nil || errY != nil {
				return m, nil, fmt.Errorf("add: coordinates must be numbers")
			}
			return m.dispatch(explorer.PointPlaced{Class: class, X: x, Y: y})
		},
	})
	r.add(Command{
		Name:        "clear",
		Usage:       "clear",
		Description: "Reset points and hyperparameters",
		Run: func(m model, args []string) (model, tea.Cmd, error) {
			return m.dispatch(explorer.ClearPressed{})
		},
	})
	r.add(Command{
		Name:        "help",
		Usage:       "help",
		Description: "Show key bindings",
		Run: func(m model, args []string) (model, tea.Cmd, error) {
			m.showHelp = true
			return m, nil, nil
		},
	})
	r.add(Command{
		Name:        "quit",
		Usage:       "quit",
		Description: "Exit",
		Run: func(m model, args []string) (model, tea.Cmd, error) {
			return m, tea.Quit, nil
		},
	})
	return r
}

func (r *CommandRegistry) add(c Command) {
	r.commands = append(r.commands, c)
	r.byName[c.Name] = c
}

func (r *CommandRegistry) All() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func (r *CommandRegistry) Names() []string {
	out := make([]string, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c.Name)
	}
	return out
}

// Execute parses line as "<name> [args...]" and runs the command.
func (r *CommandRegistry) Execute(line string, m model) (model, tea.Cmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return m, nil, nil
	}
	name := strings.ToLower(fields[0])
	cmd, ok := r.byName[name]
	if !ok {
		return m, nil, suggest(fmt.Errorf("unknown command %q", fields[0]), name, r.Names())
	}
	return cmd.Run(m, fields[1:])
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("want exactly one argument, got %d", len(args))
	}
	return args[0], nil
}

func enumNames[T fmt.Stringer](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.String())
	}
	return out
}

// closestWord returns the candidate with the smallest edit distance to word,
// if it is close enough to be a plausible typo.
func closestWord(word string, candidates []string) (string, bool) {
	word = strings.ToLower(word)
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(best)/2) {
		return "", false
	}
	return best, true
}

func suggest(err error, word string, candidates []string) error {
	if best, ok := closestWord(word, candidates); ok {
		return fmt.Errorf("%w, did you mean %q?", err, best)
	}
	return err
}

// ---------------------------------------------------------------------------
// Command line
// ---------------------------------------------------------------------------

func newCommandInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ":"
	ti.Placeholder = "kernel rbf"
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m *model) openCommand() {
	m.commandOpen = true
	m.command.Reset()
	m.command.Focus()
}

func (m *model) closeCommand() {
	m.commandOpen = false
	m.command.Blur()
	m.command.Reset()
}

func (m model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b := m.keys.LookupLocal(msg.String(), scopeCommand); b != nil {
		switch b.Action {
		case actionClose:
			m.closeCommand()
			return m, nil
		case actionConfirm:
			line := m.command.Value()
			m.closeCommand()
			next, cmd, err := m.commands.Execute(line, m)
			if err != nil {
				next.setError(err)
			}
			return next, cmd
		}
	}
	var cmd tea.Cmd
	m.command, cmd = m.command.Update(msg)
	return m, cmd
}
