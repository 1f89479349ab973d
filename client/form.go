package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/disgoorg/snowflake/v2"

	"github.com/harunoki/guildctl/api"
	"github.com/harunoki/guildctl/model"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldNumber
	fieldBool
	fieldID   // snowflake, entered as the raw id
	fieldDays // comma-separated weekday numbers, 0 = Sunday
)

type fieldDef struct {
	key         string
	label       string
	placeholder string
	kind        fieldKind
	required    bool
	// allowUnlimited accepts the -1 sentinel on a number field.
	allowUnlimited bool
	// allowNegative accepts any negative number (balance deltas).
	allowNegative bool
}

// entityDesc is the one-per-entity contract behind the shared form:
// field layout, how to prefill from the cached list, and how to persist.
// save must choose create vs update from id (0 = create).
type entityDesc struct {
	name    string
	tab     tabID
	fields  []fieldDef
	premium bool
	// doneText overrides the "<name> saved" success toast for action
	// descriptors that don't persist anything ("embed sent", "kick
	// applied").
	doneText string

	fill   func(m *appModel, id int64) (map[string]string, bool)
	save   func(c *api.Client, guild snowflake.ID, id int64, v map[string]string) error
	remove func(c *api.Client, guild snowflake.ID, id int64) error
}

// validateFields reports every missing or malformed field by label. An
// empty result means the values are submittable.
func validateFields(fields []fieldDef, v map[string]string) []string {
	var problems []string
	for _, f := range fields {
		raw := strings.TrimSpace(v[f.key])
		if raw == "" {
			if f.required {
				problems = append(problems, f.label+" is required")
			}
			continue
		}
		switch f.kind {
		case fieldNumber:
			if raw == "∞" || strings.EqualFold(raw, "unlimited") {
				if !f.allowUnlimited {
					problems = append(problems, f.label+" cannot be unlimited")
				}
				continue
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				problems = append(problems, f.label+" must be a number")
				continue
			}
			if n < 0 && !f.allowNegative && !(f.allowUnlimited && n == model.Unlimited) {
				problems = append(problems, f.label+" cannot be negative")
			}
		case fieldBool:
			if _, err := parseBoolField(raw); err != nil {
				problems = append(problems, f.label+" must be yes or no")
			}
		case fieldID:
			if _, err := snowflake.Parse(raw); err != nil {
				problems = append(problems, f.label+" must be a valid id")
			}
		case fieldDays:
			if _, err := parseDaysField(raw); err != nil {
				problems = append(problems, f.label+" must be weekdays 0-6, comma separated")
			}
		}
	}
	return problems
}

func parseBoolField(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "no", "n", "false", "0":
		return false, nil
	case "yes", "y", "true", "1":
		return true, nil
	}
	return false, fmt.Errorf("not a boolean")
}

// Parse helpers for entityDesc save funcs. Validation ran first, so
// malformed input defaults to the zero value rather than erroring.

func numField(v map[string]string, key string) int64 {
	raw := strings.TrimSpace(v[key])
	if raw == "" {
		return 0
	}
	if raw == "∞" || strings.EqualFold(raw, "unlimited") {
		return model.Unlimited
	}
	n, _ := strconv.ParseInt(raw, 10, 64)
	return n
}

func boolField(v map[string]string, key string) bool {
	b, _ := parseBoolField(v[key])
	return b
}

func idField(v map[string]string, key string) snowflake.ID {
	id, _ := snowflake.Parse(strings.TrimSpace(v[key]))
	return id
}

func parseDaysField(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(raw, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("bad weekday %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func daysField(v map[string]string, key string) []int {
	days, _ := parseDaysField(v[key])
	return days
}

func formatDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

// entityForm is the single modal implementation shared by every entity
// type. Exactly one form is open at a time.
type entityForm struct {
	desc       *entityDesc
	id         int64 // hidden id field, 0 while creating
	inputs     []textinput.Model
	focus      int
	errText    string
	submitting bool
}

// newEntityForm opens the form. A nil prefill is a create; openEdit
// passes the decoded entity and the hidden id.
func newEntityForm(desc *entityDesc, id int64, prefill map[string]string) *entityForm {
	f := &entityForm{desc: desc, id: id}
	for _, fd := range desc.fields {
		ti := textinput.New()
		ti.Placeholder = fd.placeholder
		ti.CharLimit = 512
		ti.Width = 40
		if prefill != nil {
			ti.SetValue(prefill[fd.key])
		}
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *entityForm) values() map[string]string {
	v := make(map[string]string, len(f.inputs))
	for i, fd := range f.desc.fields {
		v[fd.key] = f.inputs[i].Value()
	}
	return v
}

func (f *entityForm) setFocus(i int) {
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
}

// submit validates and, if clean, returns the save command. Validation
// failures stay inline; the form never calls the backend with a known
// bad payload.
func (f *entityForm) submit(c *api.Client, guild snowflake.ID) tea.Cmd {
	if f.submitting {
		return nil
	}
	v := f.values()
	if problems := validateFields(f.desc.fields, v); len(problems) > 0 {
		f.errText = strings.Join(problems, "; ")
		return nil
	}
	f.errText = ""
	f.submitting = true
	desc, id := f.desc, f.id
	return func() tea.Msg {
		err := desc.save(c, guild, id, v)
		if err == nil {
			verb := "created"
			if id != 0 {
				verb = "updated"
			}
			c.LogAction(context.Background(), guild, desc.name+" "+verb, fmt.Sprintf("id=%d", id))
		}
		return formSavedMsg{desc: desc, err: err}
	}
}

func (f *entityForm) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range f.inputs {
		var cmd tea.Cmd
		f.inputs[i], cmd = f.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	formErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	formBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	labelStyle     = lipgloss.NewStyle().Width(18)
	focusMark      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Render("> ")
)

func (f *entityForm) view() string {
	title := "New " + f.desc.name
	if f.id != 0 {
		title = fmt.Sprintf("Edit %s #%d", f.desc.name, f.id)
	}

	var b strings.Builder
	b.WriteString(formTitleStyle.Render(title))
	b.WriteString("\n\n")
	for i, fd := range f.desc.fields {
		mark := "  "
		if i == f.focus {
			mark = focusMark
		}
		b.WriteString(mark + labelStyle.Render(fd.label) + f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.errText != "" {
		b.WriteString(formErrStyle.Render(f.errText))
		b.WriteString("\n")
	}
	if f.submitting {
		b.WriteString("saving...\n")
	}
	b.WriteString("enter: next/save · tab: next field · esc: cancel")
	return formBoxStyle.Render(b.String())
}

// confirmDialog gates destructive actions behind an explicit y/n.
type confirmDialog struct {
	prompt string
	action tea.Cmd
}

func (d *confirmDialog) view() string {
	return formBoxStyle.Render(d.prompt + "\n\ny: confirm · n/esc: cancel")
}
