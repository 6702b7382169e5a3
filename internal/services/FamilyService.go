package services

import (
	"context"
	"fvm/internal/models"
	"fvm/internal/persistence"
	"fvm/internal/providers"
	"fvm/internal/share"
	"fvm/internal/structures"
	"io"
	"net/url"
	"sync"
	"time"
)

type FamilyServiceInterface interface {
	State() StateView
	Machine(role string) (MachineView, error)
	SetTheme(theme string) error
	SetName(role, name string) error
	AddButton(role string, input models.ButtonInput) (models.Button, error)
	UpdateButton(role, id string, patch models.ButtonInput) (models.Button, error)
	DeleteButton(role, id string) error
	MoveButton(role, id string, index int) error
	ClearAllButtons(role string) error
	LoadExample(role string) error
	ResetMachine(role string) error
	ResetAll() error

	Snapshot() *models.AppData
	Apply(data *models.AppData)
	Restore() error
	Flush() error

	Export(w io.Writer) error
	ExportFileName() string
	Import(r io.Reader) error
	StorageInfo() persistence.StorageInfo
	StorageAvailable() bool

	ShareLink() (ShareLink, error)
	ShareQR(ctx context.Context) ([]byte, error)
	SharedPreview(values url.Values) (*models.AppData, error)
	ApplyShared(values url.Values) error

	// Subscribe registers fn for change events. EventSaved is delivered from
	// inside a flush, so fn must not call Flush.
	Subscribe(fn func(Event)) (unsubscribe func())
	Close()
}

type MachineView struct {
	Role     models.Role     `json:"role"`
	Name     string          `json:"name"`
	Buttons  []models.Button `json:"buttons"`
	Modified bool            `json:"modified"`
}

type StateView struct {
	Theme    models.Theme                `json:"theme"`
	Machines map[models.Role]MachineView `json:"machines"`
}

type ShareLink struct {
	URL     string `json:"url"`
	Encoded string `json:"encoded"`
	QR      string `json:"qr"`
}

// FamilyService owns the theme and the four machines. Every mutation is
// serialized by mu; events are published and the auto-saver triggered after
// the lock is released.
type FamilyService struct {
	conf    *structures.Config
	store   persistence.VersionedStoreInterface
	codec   share.CodecInterface
	qr      providers.QRProviderInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	saver   *persistence.AutoSaver
	limits  models.Limits

	mu       sync.Mutex
	theme    models.Theme
	machines map[models.Role]*models.Machine

	subMu       sync.RWMutex
	subscribers map[int]func(Event)
	nextSub     int
}

func NewFamilyService(conf *structures.Config, store persistence.VersionedStoreInterface, codec share.CodecInterface, qr providers.QRProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *FamilyService {
	limits := models.Limits{
		MaxButtons:    conf.Machine.MaxButtons,
		MaxNameLength: conf.Machine.MaxNameLength,
		MaxTextLength: conf.Machine.MaxTextLength,
		DefaultEmoji:  conf.Machine.DefaultEmoji,
	}

	s := &FamilyService{
		conf:        conf,
		store:       store,
		codec:       codec,
		qr:          qr,
		metrics:     metrics,
		logger:      logger,
		limits:      limits,
		theme:       models.DefaultTheme,
		machines:    make(map[models.Role]*models.Machine, len(models.Roles)),
		subscribers: make(map[int]func(Event)),
	}
	for _, r := range models.Roles {
		s.machines[r] = models.NewMachine(r, limits)
	}
	s.saver = persistence.NewAutoSaver(conf.Storage.AutoSaveDelay, s.save, logger)
	return s
}

func (s *FamilyService) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *FamilyService) publish(ev Event) {
	s.subMu.RLock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (s *FamilyService) changed(ev Event) {
	s.publish(ev)
	if s.conf.Storage.AutoSave {
		s.saver.Trigger()
	}
}

// withMachine runs fn on the role's machine under the state lock.
func (s *FamilyService) withMachine(role string, fn func(m *models.Machine) (Event, error)) error {
	r, err := models.ParseRole(role)
	if err != nil {
		return err
	}

	s.mu.Lock()
	m := s.machines[r]
	ev, err := fn(m)
	count := m.Len()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	ev.Role = r
	s.metrics.SetButtonsTotal(string(r), count)
	s.changed(ev)
	return nil
}

func viewOf(m *models.Machine) MachineView {
	return MachineView{
		Role:     m.Role(),
		Name:     m.Name(),
		Buttons:  m.Buttons(),
		Modified: m.IsModified(),
	}
}

func (s *FamilyService) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := StateView{
		Theme:    s.theme,
		Machines: make(map[models.Role]MachineView, len(s.machines)),
	}
	for r, m := range s.machines {
		view.Machines[r] = viewOf(m)
	}
	return view
}

func (s *FamilyService) Machine(role string) (MachineView, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return MachineView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return viewOf(s.machines[r]), nil
}

func (s *FamilyService) SetTheme(theme string) error {
	t, err := models.ParseTheme(theme)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()

	s.changed(Event{Kind: EventThemeChanged})
	return nil
}

func (s *FamilyService) SetName(role, name string) error {
	return s.withMachine(role, func(m *models.Machine) (Event, error) {
		return Event{Kind: EventNameChanged}, m.SetName(name)
	})
}

func (s *FamilyService) AddButton(role string, input models.ButtonInput) (models.Button, error) {
	var added models.Button
	err := s.withMachine(role, func(m *models.Machine) (Event, error) {
		b, err := m.AddButton(input)
		if err != nil {
			return Event{}, err
		}
		added = b
		return Event{Kind: EventButtonAdded, ButtonID: b.ID}, nil
	})
	return added, err
}

func (s *FamilyService) UpdateButton(role, id string, patch models.ButtonInput) (models.Button, error) {
	var updated models.Button
	err := s.withMachine(role, func(m *models.Machine) (Event, error) {
		if !m.UpdateButton(id, patch) {
			return Event{}, ErrButtonNotFound
		}
		updated, _ = m.Button(id)
		return Event{Kind: EventButtonUpdated, ButtonID: id}, nil
	})
	return updated, err
}

func (s *FamilyService) DeleteButton(role, id string) error {
	return s.withMachine(role, func(m *models.Machine) (Event, error) {
		if !m.DeleteButton(id) {
			return Event{}, ErrButtonNotFound
		}
		return Event{Kind: EventButtonDeleted, ButtonID: id}, nil
	})
}

func (s *FamilyService) MoveButton(role, id string, index int) error {
	return s.withMachine(role, func(m *models.Machine) (Event, error) {
		if !m.MoveButton(id, index) {
			return Event{}, ErrButtonNotFound
		}
		return Event{Kind: EventButtonMoved, ButtonID: id}, nil
	})
}

func (s *FamilyService) ClearAllButtons(role string) error {
	return s.withMachine(role, func(m *models.Machine) (Event, error) {
		return Event{Kind: EventButtonsCleared}, m.ClearAllButtons()
	})
}

func (s *FamilyService) LoadExample(role string) error {
	return s.withMachine(role, func(m *models.Machine) (Event, error) {
		m.LoadExample()
		return Event{Kind: EventExampleLoaded}, nil
	})
}

func (s *FamilyService) ResetMachine(role string) error {
	return s.withMachine(role, func(m *models.Machine) (Event, error) {
		m.Reset()
		return Event{Kind: EventMachineReset}, nil
	})
}

// ResetAll clears the stored state and every machine.
func (s *FamilyService) ResetAll() error {
	s.saver.Cancel()
	if err := s.store.Clear(); err != nil {
		return err
	}

	s.mu.Lock()
	s.theme = models.DefaultTheme
	for _, m := range s.machines {
		m.Reset()
	}
	s.mu.Unlock()

	s.updateGauges()
	s.logger.Infof(providers.TypeApp, "All machines reset")
	s.publish(Event{Kind: EventStateReset})
	return nil
}

func (s *FamilyService) Snapshot() *models.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := &models.AppData{
		Theme:    s.theme,
		Machines: make(map[models.Role]*models.MachineData, len(s.machines)),
	}
	for r, m := range s.machines {
		md := m.Serialize()
		data.Machines[r] = &md
	}
	return data
}

func (s *FamilyService) apply(data *models.AppData) {
	s.mu.Lock()
	if data.Theme.Valid() {
		s.theme = data.Theme
	}
	for _, r := range models.Roles {
		md, ok := data.Machines[r]
		if !ok || md == nil {
			continue
		}
		if !s.machines[r].Deserialize(*md) {
			s.logger.Warnf(providers.TypeApp, "Ignored data addressed to role %q under %q", md.Role, r)
		}
	}
	s.mu.Unlock()
	s.updateGauges()
}

// Apply replaces the live state with data and schedules a save.
func (s *FamilyService) Apply(data *models.AppData) {
	if data == nil {
		return
	}
	s.apply(data)
	s.changed(Event{Kind: EventStateApplied})
}

func (s *FamilyService) updateGauges() {
	s.mu.Lock()
	counts := make(map[models.Role]int, len(s.machines))
	for r, m := range s.machines {
		counts[r] = m.Len()
	}
	s.mu.Unlock()

	for r, c := range counts {
		s.metrics.SetButtonsTotal(string(r), c)
	}
}

func (s *FamilyService) markSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.machines {
		m.MarkSaved()
	}
}

// Restore loads the stored state. A missing or unreadable slot leaves the
// empty state in place.
func (s *FamilyService) Restore() error {
	data, ok := s.store.Load()
	if !ok {
		s.logger.Infof(providers.TypeApp, "No saved state found, starting empty")
		return nil
	}
	s.apply(data)
	s.markSaved()
	s.logger.Infof(providers.TypeApp, "State restored")
	s.publish(Event{Kind: EventStateApplied})
	return nil
}

func (s *FamilyService) save() error {
	if err := s.store.Save(s.Snapshot()); err != nil {
		return err
	}
	s.markSaved()
	s.publish(Event{Kind: EventSaved})
	return nil
}

// Flush saves immediately, dropping any pending debounced save.
func (s *FamilyService) Flush() error {
	return s.saver.Flush()
}

func (s *FamilyService) Export(w io.Writer) error {
	return s.store.Export(w, s.Snapshot())
}

func (s *FamilyService) ExportFileName() string {
	return s.store.ExportFileName(time.Now())
}

// Import replaces the state with an exported document and saves it. An
// invalid document leaves the state untouched.
func (s *FamilyService) Import(r io.Reader) error {
	data, err := s.store.Import(r)
	if err != nil {
		return err
	}
	s.apply(data)
	s.publish(Event{Kind: EventStateApplied})
	s.logger.Infof(providers.TypeApp, "State imported")
	return s.Flush()
}

func (s *FamilyService) StorageInfo() persistence.StorageInfo {
	return s.store.Info()
}

func (s *FamilyService) StorageAvailable() bool {
	return s.store.Available()
}

func (s *FamilyService) ShareLink() (ShareLink, error) {
	data := s.Snapshot()
	total := 0
	for _, r := range models.Roles {
		total += data.ButtonCount(r)
	}
	if total == 0 {
		return ShareLink{}, models.ErrNoButtons
	}

	encoded, err := s.codec.Encode(data)
	if err != nil {
		return ShareLink{}, err
	}
	link, err := s.codec.ShareURL(s.conf.Share.BaseURL, data)
	if err != nil {
		return ShareLink{}, err
	}
	return ShareLink{URL: link, Encoded: encoded, QR: s.qr.ImageURL(link)}, nil
}

func (s *FamilyService) ShareQR(ctx context.Context) ([]byte, error) {
	link, err := s.ShareLink()
	if err != nil {
		return nil, err
	}
	return s.qr.Fetch(ctx, link.URL)
}

// SharedPreview decodes a share link and returns the state applying it would
// produce, clamped by the same machine rules.
func (s *FamilyService) SharedPreview(values url.Values) (*models.AppData, error) {
	data := s.codec.FromQuery(values)
	if data == nil {
		return nil, ErrInvalidShare
	}
	return s.normalize(data), nil
}

func (s *FamilyService) normalize(data *models.AppData) *models.AppData {
	out := &models.AppData{
		Theme:    data.Theme,
		Machines: make(map[models.Role]*models.MachineData, len(models.Roles)),
	}
	if !out.Theme.Valid() {
		out.Theme = models.DefaultTheme
	}
	for _, r := range models.Roles {
		m := models.NewMachine(r, s.limits)
		if md, ok := data.Machines[r]; ok && md != nil {
			m.Deserialize(*md)
		}
		md := m.Serialize()
		out.Machines[r] = &md
	}
	return out
}

func (s *FamilyService) ApplyShared(values url.Values) error {
	data, err := s.SharedPreview(values)
	if err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Applying shared state")
	s.Apply(data)
	return nil
}

func (s *FamilyService) Close() {
	s.saver.Stop()
}
