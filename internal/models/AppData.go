package models

// ButtonData is the persisted shape of a button. Ids are not persisted;
// they are regenerated when the data is loaded into a Machine.
type ButtonData struct {
	Emoji string `json:"emoji"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type MachineData struct {
	Role    Role         `json:"role,omitempty"`
	Name    string       `json:"name"`
	Buttons []ButtonData `json:"buttons"`
}

// AppData is the full application snapshot stored in the envelope's data field.
type AppData struct {
	Theme    Theme                 `json:"theme"`
	Machines map[Role]*MachineData `json:"machines"`
}

// NewAppData returns an empty snapshot with every role present.
func NewAppData() *AppData {
	data := &AppData{
		Theme:    DefaultTheme,
		Machines: make(map[Role]*MachineData, len(Roles)),
	}
	for _, r := range Roles {
		data.Machines[r] = &MachineData{Role: r, Buttons: []ButtonData{}}
	}
	return data
}

// ButtonCount returns the number of buttons stored for role.
func (d *AppData) ButtonCount(role Role) int {
	if d == nil || d.Machines == nil {
		return 0
	}
	if m, ok := d.Machines[role]; ok && m != nil {
		return len(m.Buttons)
	}
	return 0
}
