package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type authMode int

const (
	modeSignIn authMode = iota
	modeSignUp
)

func (m authMode) String() string {
	if m == modeSignUp {
		return "Sign up"
	}
	return "Sign in"
}

const (
	fieldName    = "name"
	fieldEmail   = "email"
	fieldPass    = "password"
	fieldConfirm = "confirm"
)

// profileForm is the sign-in / sign-up form of the profile view.
type profileForm struct {
	mode   authMode
	names  []string
	inputs []textinput.Model
	focus  int
	err    string
}

func newProfileForm(mode authMode) profileForm {
	names := []string{fieldEmail, fieldPass}
	if mode == modeSignUp {
		names = []string{fieldName, fieldEmail, fieldPass, fieldConfirm}
	}

	f := profileForm{mode: mode, names: names, inputs: make([]textinput.Model, len(names))}
	for i, name := range names {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-9s ", strings.ToUpper(name[:1])+name[1:]+":")
		ti.CharLimit = 128
		switch name {
		case fieldEmail:
			ti.Placeholder = "you@example.com"
		case fieldPass, fieldConfirm:
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs[i] = ti
	}
	f.inputs[0].Focus()
	return f
}

func (f *profileForm) value(name string) string {
	for i, n := range f.names {
		if n == name {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f *profileForm) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *profileForm) last() bool { return f.focus == len(f.inputs)-1 }

func (f *profileForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// validate checks the fields the backend cannot check for us.
func (f *profileForm) validate() error {
	if strings.TrimSpace(f.value(fieldEmail)) == "" || f.value(fieldPass) == "" {
		return errors.New("email and password are required")
	}
	if f.mode == modeSignUp {
		if strings.TrimSpace(f.value(fieldName)) == "" {
			return errors.New("name is required")
		}
		if f.value(fieldPass) != f.value(fieldConfirm) {
			return errors.New("passwords do not match")
		}
	}
	return nil
}

func (f profileForm) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(f.mode.String()))
	b.WriteString("\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(f.err))
		b.WriteString("\n")
	}
	return b.String()
}
