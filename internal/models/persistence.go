package models

import (
	json "github.com/goccy/go-json"
	"github.com/go-openapi/strfmt"
)

// AppInfo is the descriptive block added to exported files and backups.
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Envelope is the versioned wrapper used both for the persisted slot and for
// exported files. Data is kept raw so it can be migrated before it is decoded
// into AppData.
type Envelope struct {
	Version   string          `json:"version"`
	Timestamp strfmt.DateTime `json:"timestamp"`
	App       *AppInfo        `json:"app,omitempty"`
	Data      json.RawMessage `json:"data"`
}
