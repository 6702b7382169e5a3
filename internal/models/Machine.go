package models

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type Limits struct {
	MaxButtons    int
	MaxNameLength int
	MaxTextLength int
	DefaultEmoji  string
}

func DefaultLimits() Limits {
	return Limits{
		MaxButtons:    12,
		MaxNameLength: 20,
		MaxTextLength: 15,
		DefaultEmoji:  "😊",
	}
}

// Machine holds one role's name and ordered buttons. Orders are always
// 1..n in slice order. A Machine is not safe for concurrent mutation; the
// owner serializes access.
type Machine struct {
	role     Role
	name     string
	buttons  []*Button
	limits   Limits
	newID    func() string
	modified atomic.Bool
}

func NewMachine(role Role, limits Limits) *Machine {
	m := &Machine{
		role:    role,
		buttons: make([]*Button, 0, limits.MaxButtons),
		limits:  limits,
	}
	m.newID = func() string {
		return string(m.role) + "-btn-" + uuid.NewString()
	}
	return m
}

func (m *Machine) Role() Role {
	return m.role
}

func (m *Machine) Name() string {
	return m.name
}

func (m *Machine) Len() int {
	return len(m.buttons)
}

func (m *Machine) IsModified() bool {
	return m.modified.Load()
}

// MarkSaved clears the modified flag after the state reached storage.
func (m *Machine) MarkSaved() {
	m.modified.Store(false)
}

// Buttons returns a copy of the buttons in display order.
func (m *Machine) Buttons() []Button {
	out := make([]Button, len(m.buttons))
	for i, b := range m.buttons {
		out[i] = *b
	}
	return out
}

func (m *Machine) Button(id string) (Button, bool) {
	if i := m.indexOf(id); i >= 0 {
		return *m.buttons[i], true
	}
	return Button{}, false
}

func (m *Machine) indexOf(id string) int {
	for i, b := range m.buttons {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (m *Machine) renumber() {
	for i, b := range m.buttons {
		b.Order = i + 1
	}
}

func (m *Machine) AddButton(input ButtonInput) (Button, error) {
	if len(m.buttons) >= m.limits.MaxButtons {
		return Button{}, ErrLimitReached
	}

	b := &Button{
		ID:    m.newID(),
		Emoji: m.limits.DefaultEmoji,
		Order: len(m.buttons) + 1,
	}
	if input.Emoji != nil {
		b.Emoji = normalizeEmoji(*input.Emoji, m.limits.DefaultEmoji)
	}
	if input.Text != nil {
		b.Text = sanitizeText(*input.Text, m.limits.MaxTextLength)
	}

	m.buttons = append(m.buttons, b)
	m.modified.Store(true)
	return *b, nil
}

// UpdateButton applies the non-nil fields of patch. An empty emoji is ignored.
// It reports false when id is unknown.
func (m *Machine) UpdateButton(id string, patch ButtonInput) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	b := m.buttons[i]
	if patch.Emoji != nil && strings.TrimSpace(*patch.Emoji) != "" {
		b.Emoji = normalizeEmoji(*patch.Emoji, m.limits.DefaultEmoji)
	}
	if patch.Text != nil {
		b.Text = sanitizeText(*patch.Text, m.limits.MaxTextLength)
	}
	m.modified.Store(true)
	return true
}

func (m *Machine) DeleteButton(id string) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.buttons = append(m.buttons[:i], m.buttons[i+1:]...)
	m.renumber()
	m.modified.Store(true)
	return true
}

// MoveButton moves the button to the 0-based position index, clamped to the
// list bounds.
func (m *Machine) MoveButton(id string, index int) bool {
	from := m.indexOf(id)
	if from < 0 {
		return false
	}
	index = max(0, min(index, len(m.buttons)-1))
	if index != from {
		b := m.buttons[from]
		m.buttons = append(m.buttons[:from], m.buttons[from+1:]...)
		m.buttons = append(m.buttons[:index], append([]*Button{b}, m.buttons[index:]...)...)
		m.renumber()
		m.modified.Store(true)
	}
	return true
}

func (m *Machine) ClearAllButtons() error {
	if len(m.buttons) == 0 {
		return ErrNothingToClear
	}
	m.buttons = m.buttons[:0]
	m.modified.Store(true)
	return nil
}

func (m *Machine) SetName(name string) error {
	if utf8.RuneCountInString(name) > m.limits.MaxNameLength {
		return ErrNameTooLong
	}
	m.name = StripMarkup(name)
	m.modified.Store(true)
	return nil
}

// LoadExample replaces the buttons with the role's sample set.
func (m *Machine) LoadExample() {
	m.buttons = m.buttons[:0]
	for _, ex := range Examples(m.role) {
		emoji, text := ex.Emoji, ex.Text
		if _, err := m.AddButton(ButtonInput{Emoji: &emoji, Text: &text}); err != nil {
			break
		}
	}
	m.modified.Store(true)
}

func (m *Machine) Reset() {
	m.name = ""
	m.buttons = m.buttons[:0]
	m.modified.Store(false)
}

func (m *Machine) Serialize() MachineData {
	data := MachineData{
		Role:    m.role,
		Name:    m.name,
		Buttons: make([]ButtonData, len(m.buttons)),
	}
	for i, b := range m.buttons {
		data.Buttons[i] = ButtonData{Emoji: b.Emoji, Text: b.Text, Order: b.Order}
	}
	return data
}

// Deserialize replaces the machine state with data. Data addressed to another
// role is ignored and reported as false; an empty role is accepted. Buttons
// are rebuilt through AddButton, so ids are fresh, orders follow the slice and
// anything beyond the button limit is dropped.
func (m *Machine) Deserialize(data MachineData) bool {
	if data.Role != "" && data.Role != m.role {
		return false
	}

	m.name = ClampRunes(StripMarkup(data.Name), m.limits.MaxNameLength)
	m.buttons = m.buttons[:0]
	for _, bd := range data.Buttons {
		emoji, text := bd.Emoji, bd.Text
		if _, err := m.AddButton(ButtonInput{Emoji: &emoji, Text: &text}); err != nil {
			break
		}
	}
	m.modified.Store(true)
	return true
}
