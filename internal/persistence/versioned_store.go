package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"fvm/internal/models"
	"fvm/internal/persistence/interfaces"
	"fvm/internal/providers"
	"fvm/internal/structures"
	"io"
	"math"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
)

const (
	exportFilePrefix = "family-vending-machine"
	maxImportSize    = 1 << 20
	probeKey         = "__storage_test__"
)

type VersionedStoreInterface interface {
	Save(data *models.AppData) error
	Load() (*models.AppData, bool)
	Clear() error
	Export(w io.Writer, data *models.AppData) error
	Import(r io.Reader) (*models.AppData, error)
	ExportFileName(t time.Time) string
	CreateBackup() ([]byte, error)
	RestoreBackup(raw []byte) error
	AutoBackup() error
	Info() StorageInfo
	Available() bool
}

type StorageInfo struct {
	Supported  bool    `json:"supported"`
	Used       int     `json:"used"`
	Available  int     `json:"available"`
	Percentage float64 `json:"percentage"`
}

// VersionedStore keeps the application snapshot under one key, wrapped in a
// versioned envelope, and migrates older envelopes on the way in.
type VersionedStore struct {
	kv      interfaces.KeyValueStore
	key     string
	version string
	quota   int
	app     models.AppInfo
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	now     func() time.Time
}

func NewVersionedStore(conf *structures.Config, kv interfaces.KeyValueStore, metrics providers.MetricsProviderInterface, logger providers.Logger) *VersionedStore {
	return &VersionedStore{
		kv:      kv,
		key:     conf.Storage.Key,
		version: conf.Storage.Version,
		quota:   conf.Storage.QuotaBytes,
		app: models.AppInfo{
			Name:        conf.AppName,
			Version:     conf.Storage.Version,
			Description: "Family vending machine favourites",
		},
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *VersionedStore) envelope(data *models.AppData, withApp bool) (*models.Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	env := &models.Envelope{
		Version:   s.version,
		Timestamp: strfmt.DateTime(s.now().UTC()),
		Data:      raw,
	}
	if withApp {
		app := s.app
		env.App = &app
	}
	return env, nil
}

func (s *VersionedStore) Save(data *models.AppData) error {
	start := time.Now()
	defer func() {
		s.metrics.ObservePersistenceDuration("save", time.Since(start))
	}()

	env, err := s.envelope(data, false)
	if err != nil {
		s.metrics.IncPersistenceFailures("encode")
		return fmt.Errorf("encode envelope: %w", err)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		s.metrics.IncPersistenceFailures("encode")
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := s.kv.Set(s.key, raw); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			s.metrics.IncPersistenceFailures("quota")
			s.logger.Warnf(providers.TypeStorage, "Storage quota exceeded while saving %d bytes, cleaning up secondary keys", len(raw))
			s.cleanupOldData()
			return fmt.Errorf("save %s: %w", s.key, err)
		}
		s.metrics.IncPersistenceFailures("write")
		s.logger.Errorf(providers.TypeStorage, "Failed to save data: %s", err)
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// cleanupOldData drops the secondary keys that may be holding space. Errors
// are ignored.
func (s *VersionedStore) cleanupOldData() {
	for _, k := range []string{s.key + "_backup", s.key + "_temp"} {
		if err := s.kv.Remove(k); err != nil {
			s.logger.Debugf(providers.TypeStorage, "Cleanup of %s failed: %s", k, err)
		}
	}
}

func (s *VersionedStore) Load() (*models.AppData, bool) {
	start := time.Now()
	defer func() {
		s.metrics.ObservePersistenceDuration("load", time.Since(start))
	}()

	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.metrics.IncPersistenceFailures("read")
		s.logger.Errorf(providers.TypeStorage, "Failed to load data: %s", err)
		return nil, false
	}
	if !ok || len(raw) == 0 {
		return nil, false
	}

	data, err := s.decodeEnvelope(raw)
	if err != nil {
		s.metrics.IncPersistenceFailures("parse")
		s.logger.Errorf(providers.TypeStorage, "Failed to load data: %s", err)
		return nil, false
	}
	return data, true
}

func (s *VersionedStore) Clear() error {
	if err := s.kv.Remove(s.key); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Failed to clear data: %s", err)
		return err
	}
	return nil
}

// decodeEnvelope parses an envelope, migrates its data block when the version
// differs and decodes the result into AppData.
func (s *VersionedStore) decodeEnvelope(raw []byte) (*models.AppData, error) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidEnvelope)
	}
	if env.Version == "" {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidEnvelope)
	}

	payload := []byte(env.Data)
	if env.Version != s.version {
		s.logger.Infof(providers.TypeStorage, "Data version mismatch (%s != %s), attempting migration", env.Version, s.version)

		var generic map[string]any
		if err := json.Unmarshal(env.Data, &generic); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
		}
		migrated, reached, err := Migrate(env.Version, s.version, generic)
		if err != nil {
			return nil, err
		}
		if reached != s.version {
			s.logger.Warnf(providers.TypeStorage, "No migration path from %s, using data as is", reached)
		}
		if payload, err = json.Marshal(migrated); err != nil {
			return nil, err
		}
	}

	data := &models.AppData{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if !data.Theme.Valid() {
		data.Theme = models.DefaultTheme
	}
	if data.Machines == nil {
		data.Machines = make(map[models.Role]*models.MachineData)
	}
	return data, nil
}

func (s *VersionedStore) marshalDocument(data *models.AppData) ([]byte, error) {
	env, err := s.envelope(data, true)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

func (s *VersionedStore) Export(w io.Writer, data *models.AppData) error {
	doc, err := s.marshalDocument(data)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = w.Write(doc)
	return err
}

func (s *VersionedStore) Import(r io.Reader) (*models.AppData, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxImportSize))
	if err != nil {
		return nil, err
	}
	data, err := s.decodeEnvelope(raw)
	if err != nil {
		s.logger.Warnf(providers.TypeStorage, "Import rejected: %s", err)
		return nil, err
	}
	return data, nil
}

func (s *VersionedStore) ExportFileName(t time.Time) string {
	return fmt.Sprintf("%s_%s.json", exportFilePrefix, t.UTC().Format("2006-01-02"))
}

// CreateBackup returns a backup document of the stored data, or nil when
// nothing is stored.
func (s *VersionedStore) CreateBackup() ([]byte, error) {
	data, ok := s.Load()
	if !ok {
		return nil, nil
	}
	return s.marshalDocument(data)
}

func (s *VersionedStore) RestoreBackup(raw []byte) error {
	data, err := s.decodeEnvelope(raw)
	if err != nil {
		s.logger.Errorf(providers.TypeStorage, "Failed to restore backup: %s", err)
		return err
	}
	return s.Save(data)
}

func (s *VersionedStore) AutoBackup() error {
	backup, err := s.CreateBackup()
	if err != nil {
		return err
	}
	if backup == nil {
		return nil
	}
	if err := s.kv.Set(s.key+"_autobackup", backup); err != nil {
		s.metrics.IncPersistenceFailures("backup")
		return fmt.Errorf("auto backup: %w", err)
	}
	return nil
}

func (s *VersionedStore) supported() bool {
	if err := s.kv.Set(probeKey, []byte(probeKey)); err != nil {
		return false
	}
	return s.kv.Remove(probeKey) == nil
}

// Available reports whether the state key can be read. Unlike Info it does not
// write to the store.
func (s *VersionedStore) Available() bool {
	_, _, err := s.kv.Get(s.key)
	return err == nil
}

func (s *VersionedStore) Info() StorageInfo {
	if !s.supported() {
		return StorageInfo{}
	}
	used, err := usage(s.kv, "")
	if err != nil {
		return StorageInfo{}
	}
	pct := 0.0
	if s.quota > 0 {
		pct = math.Round(float64(used)/float64(s.quota)*10000) / 100
	}
	return StorageInfo{
		Supported:  true,
		Used:       used,
		Available:  s.quota - used,
		Percentage: pct,
	}
}
