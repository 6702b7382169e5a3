package persistence

import (
	"bytes"
	"fmt"
	"fvm/internal/models"
	"fvm/internal/structures"
	"fvm/internal/testutil"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *structures.Config {
	return &structures.Config{
		AppName: "FamilyVendingMachine",
		Storage: structures.StorageConfig{
			Driver:     "memory",
			Key:        "familyVendingMachine",
			Version:    "2.0",
			QuotaBytes: 5 * 1024 * 1024,
		},
	}
}

func newTestStore(kv *testutil.MockKV) (*VersionedStore, *testutil.MockMetrics, *testutil.MockLogger) {
	metrics := testutil.NewMockMetrics()
	logger := &testutil.MockLogger{}
	s := NewVersionedStore(testConfig(), kv, metrics, logger)
	s.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return s, metrics, logger
}

func sampleData() *models.AppData {
	data := models.NewAppData()
	data.Theme = models.ThemePastel
	data.Machines[models.RoleDad].Name = "Dad"
	data.Machines[models.RoleDad].Buttons = []models.ButtonData{
		{Emoji: "⚽", Text: "Soccer", Order: 1},
		{Emoji: "🎣", Text: "Fishing", Order: 2},
	}
	return data
}

func TestVersionedStore_SaveLoadRoundTrip(t *testing.T) {
	kv := testutil.NewMockKV()
	s, metrics, _ := newTestStore(kv)

	require.NoError(t, s.Save(sampleData()))

	var env map[string]any
	require.NoError(t, json.Unmarshal(kv.Data["familyVendingMachine"], &env))
	assert.Equal(t, "2.0", env["version"])
	assert.Equal(t, "2024-05-06T07:08:09.000Z", env["timestamp"])
	assert.Contains(t, env, "data")
	assert.NotContains(t, env, "app")

	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, sampleData(), loaded)
	assert.Equal(t, 1, metrics.Get(metrics.PersistenceOps, "save"))
}

func TestVersionedStore_LoadMissing(t *testing.T) {
	s, _, logger := newTestStore(testutil.NewMockKV())
	data, ok := s.Load()
	assert.Nil(t, data)
	assert.False(t, ok)
	assert.Equal(t, 0, logger.Count("error"))
}

func TestVersionedStore_LoadCorrupted(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data["familyVendingMachine"] = []byte("{not json")
	s, metrics, logger := newTestStore(kv)

	data, ok := s.Load()
	assert.Nil(t, data)
	assert.False(t, ok)
	assert.Equal(t, 1, logger.Count("error"))
	assert.Equal(t, 1, metrics.Get(metrics.PersistenceFailures, "parse"))
}

func TestVersionedStore_LoadMigratesV1(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data["familyVendingMachine"] = []byte(`{
		"version": "1.0",
		"timestamp": "2023-01-01T00:00:00.000Z",
		"data": {
			"mom": {"name": "Mom", "buttons": [
				{"emoji": "☕", "text": "Coffee", "order": "2"},
				{"emoji": "🍰", "text": "Cake", "order": 1}
			]},
			"son": {"buttons": [{"emoji": "🎮", "text": "Games"}]}
		}
	}`)
	s, _, _ := newTestStore(kv)

	data, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, models.ThemeLight, data.Theme)

	mom := data.Machines[models.RoleMom]
	require.NotNil(t, mom)
	assert.Equal(t, models.RoleMom, mom.Role)
	assert.Equal(t, "Mom", mom.Name)
	assert.Equal(t, []models.ButtonData{
		{Emoji: "🍰", Text: "Cake", Order: 1},
		{Emoji: "☕", Text: "Coffee", Order: 2},
	}, mom.Buttons)

	son := data.Machines[models.RoleSon]
	require.NotNil(t, son)
	assert.Equal(t, "", son.Name)
	assert.Equal(t, 1, son.Buttons[0].Order)
	assert.Nil(t, data.Machines[models.RoleDad])
}

func TestVersionedStore_UnknownVersionPassesThrough(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data["familyVendingMachine"] = []byte(`{"version":"1.5","timestamp":"2023-01-01T00:00:00Z","data":{"theme":"kids","machines":{"son":{"name":"Leo","buttons":[]}}}}`)
	s, _, logger := newTestStore(kv)

	data, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, models.ThemeKids, data.Theme)
	assert.Equal(t, "Leo", data.Machines[models.RoleSon].Name)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestVersionedStore_SaveQuotaExceededCleansUp(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.Data["familyVendingMachine"] = []byte("previous")
	kv.Data["familyVendingMachine_backup"] = []byte("b")
	kv.Data["familyVendingMachine_temp"] = []byte("t")
	kv.SetErr = ErrQuotaExceeded
	s, metrics, _ := newTestStore(kv)

	err := s.Save(sampleData())
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, []string{"familyVendingMachine_backup", "familyVendingMachine_temp"}, kv.Removed)
	assert.Equal(t, "previous", string(kv.Data["familyVendingMachine"]))
	assert.Equal(t, 1, metrics.Get(metrics.PersistenceFailures, "quota"))
}

func TestVersionedStore_SaveQuotaCleanupErrorsIgnored(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.SetErr = ErrQuotaExceeded
	kv.RemoveErr = fmt.Errorf("remove failed")
	s, _, _ := newTestStore(kv)

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, s.Save(sampleData()), ErrQuotaExceeded)
	})
}

func TestVersionedStore_SaveWriteFailure(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.SetErr = fmt.Errorf("%w: disk gone", ErrStorageUnavailable)
	s, _, _ := newTestStore(kv)

	err := s.Save(sampleData())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Empty(t, kv.Removed)
}

func TestVersionedStore_Clear(t *testing.T) {
	kv := testutil.NewMockKV()
	s, _, _ := newTestStore(kv)
	require.NoError(t, s.Save(sampleData()))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, ok := s.Load()
	assert.False(t, ok)
}

func TestVersionedStore_ExportImport(t *testing.T) {
	s, _, _ := newTestStore(testutil.NewMockKV())

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf, sampleData()))
	assert.Contains(t, buf.String(), "\n  \"version\": \"2.0\"")
	assert.Contains(t, buf.String(), `"name": "FamilyVendingMachine"`)

	data, err := s.Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleData(), data)
}

func TestVersionedStore_ImportInvalid(t *testing.T) {
	s, _, _ := newTestStore(testutil.NewMockKV())

	cases := map[string]string{
		"not json":        "hello",
		"missing data":    `{"version":"2.0"}`,
		"null data":       `{"version":"2.0","data":null}`,
		"missing version": `{"data":{"theme":"light","machines":{}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Import(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}

	_, err := s.Import(strings.NewReader(`{"version":"2.0"}`))
	assert.ErrorContains(t, err, "missing data")
	_, err = s.Import(strings.NewReader(`{"data":{}}`))
	assert.ErrorContains(t, err, "missing version")
}

func TestVersionedStore_ImportMigratesV1(t *testing.T) {
	s, _, _ := newTestStore(testutil.NewMockKV())
	data, err := s.Import(strings.NewReader(`{"version":"1.0","data":{"dad":{"name":"Dad","buttons":[{"emoji":"⚽","text":"Ball"}]}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Dad", data.Machines[models.RoleDad].Name)
	assert.Equal(t, 1, data.ButtonCount(models.RoleDad))
}

func TestVersionedStore_ExportFileName(t *testing.T) {
	s, _, _ := newTestStore(testutil.NewMockKV())
	name := s.ExportFileName(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "family-vending-machine_2024-12-31.json", name)
}

func TestVersionedStore_BackupRestore(t *testing.T) {
	kv := testutil.NewMockKV()
	s, _, _ := newTestStore(kv)

	backup, err := s.CreateBackup()
	require.NoError(t, err)
	assert.Nil(t, backup)

	require.NoError(t, s.Save(sampleData()))
	backup, err = s.CreateBackup()
	require.NoError(t, err)
	require.NotNil(t, backup)

	require.NoError(t, s.Clear())
	require.NoError(t, s.RestoreBackup(backup))
	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, sampleData(), loaded)

	assert.ErrorIs(t, s.RestoreBackup([]byte(`{"version":"2.0"}`)), ErrInvalidEnvelope)
}

func TestVersionedStore_AutoBackup(t *testing.T) {
	kv := testutil.NewMockKV()
	s, _, _ := newTestStore(kv)

	require.NoError(t, s.AutoBackup())
	assert.NotContains(t, kv.Data, "familyVendingMachine_autobackup")

	require.NoError(t, s.Save(sampleData()))
	require.NoError(t, s.AutoBackup())
	assert.Contains(t, kv.Data, "familyVendingMachine_autobackup")
}

func TestVersionedStore_Info(t *testing.T) {
	conf := testConfig()
	conf.Storage.QuotaBytes = 1000
	kv := NewQuotaStore(NewMemoryStore(), 1000)
	s := NewVersionedStore(conf, kv, testutil.NewMockMetrics(), &testutil.MockLogger{})

	require.NoError(t, kv.Set("abcd", []byte("123456")))
	info := s.Info()
	assert.True(t, info.Supported)
	assert.Equal(t, 10, info.Used)
	assert.Equal(t, 990, info.Available)
	assert.Equal(t, 1.0, info.Percentage)

	keys, _ := kv.Keys()
	assert.Equal(t, []string{"abcd"}, keys)
}

func TestVersionedStore_InfoUnsupported(t *testing.T) {
	kv := testutil.NewMockKV()
	kv.SetErr = ErrStorageUnavailable
	s, _, _ := newTestStore(kv)

	assert.Equal(t, StorageInfo{}, s.Info())
}

func TestVersionedStore_AvailableIsReadOnly(t *testing.T) {
	kv := testutil.NewMockKV()
	s, _, _ := newTestStore(kv)

	assert.True(t, s.Available())
	assert.Equal(t, 0, kv.SetCalls)
	assert.Empty(t, kv.Removed)

	kv.GetErr = ErrStorageUnavailable
	assert.False(t, s.Available())
}
