package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Driver         string        `yaml:"driver" validate:"required|in:memory,file,sqlite"`
	Path           string        `yaml:"path"`
	Key            string        `yaml:"key" validate:"required"`
	Version        string        `yaml:"version" validate:"required"`
	QuotaBytes     int           `yaml:"quotaBytes" validate:"required|min:1"`
	AutoSave       bool          `yaml:"autoSave"`
	AutoSaveDelay  time.Duration `yaml:"autoSaveDelay"`
	BackupInterval time.Duration `yaml:"backupInterval"`
}

type MachineConfig struct {
	MaxButtons    int    `yaml:"maxButtons" validate:"required|min:1"`
	MaxNameLength int    `yaml:"maxNameLength" validate:"required|min:1"`
	MaxTextLength int    `yaml:"maxTextLength" validate:"required|min:1"`
	DefaultEmoji  string `yaml:"defaultEmoji" validate:"required"`
}

type ShareConfig struct {
	BaseURL   string        `yaml:"baseURL" validate:"required|fullUrl"`
	QRApiURL  string        `yaml:"qrApiURL" validate:"required|fullUrl"`
	QRSize    int           `yaml:"qrSize"`
	QRMargin  int           `yaml:"qrMargin"`
	QRTimeout time.Duration `yaml:"qrTimeout"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Storage   StorageConfig `yaml:"storage"`
	Machine   MachineConfig `yaml:"machine"`
	Share     ShareConfig   `yaml:"share"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

// Pattern returns the ServeMux pattern for the route.
func (r Route) Pattern() string {
	if r.Method == "" {
		return r.Url
	}
	return r.Method + " " + r.Url
}
