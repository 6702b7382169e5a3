package services

import "fvm/internal/models"

type EventKind string

const (
	EventButtonAdded    EventKind = "button_added"
	EventButtonUpdated  EventKind = "button_updated"
	EventButtonDeleted  EventKind = "button_deleted"
	EventButtonMoved    EventKind = "button_moved"
	EventButtonsCleared EventKind = "buttons_cleared"
	EventNameChanged    EventKind = "name_changed"
	EventExampleLoaded  EventKind = "example_loaded"
	EventMachineReset   EventKind = "machine_reset"
	EventThemeChanged   EventKind = "theme_changed"
	EventStateApplied   EventKind = "state_applied"
	EventStateReset     EventKind = "state_reset"
	EventSaved          EventKind = "saved"
)

// Event is published after every state change. Role and ButtonID are empty
// when the change is not tied to one machine or button.
type Event struct {
	Kind     EventKind   `json:"kind"`
	Role     models.Role `json:"role,omitempty"`
	ButtonID string      `json:"buttonId,omitempty"`
}
