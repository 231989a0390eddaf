// ABOUTME: Preference store over an embedded badger key/value database.
// ABOUTME: Typed getters fall back to defaults; writes notify registered listeners.
package prefs

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/healthlog/internal/logging"
	"github.com/harperreed/healthlog/internal/models"
)

// ErrUnknownKey is returned when setting a key the store does not track.
var ErrUnknownKey = errors.New("unknown preference key")

// ThemeListener is notified with the new theme after it changes.
type ThemeListener interface {
	ThemeChanged(theme Theme)
}

// WidgetConfigListener is notified after any widget enable flag changes.
// It receives the store so it can read whichever flags it cares about.
type WidgetConfigListener interface {
	WidgetConfigChanged(store *Store)
}

// Store holds user preferences. Listeners are matched with ==; listeners of
// a non-comparable type never match, so they cannot be deduplicated or removed.
type Store struct {
	db     *badger.DB
	logger *log.Logger

	mu              sync.RWMutex
	themeListeners  []ThemeListener
	widgetListeners []WidgetConfigListener
}

// Open opens the preference database in dir. An empty dir keeps the
// preferences in memory only.
func Open(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "prefs")

	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the preference database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value of key, or its default.
func (s *Store) Get(key string) (string, error) {
	spec, ok := keys[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return spec.def, nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return string(value), nil
}

// Set validates and stores value under key, then notifies listeners.
func (s *Store) Set(key, value string) error {
	spec, ok := keys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := spec.check(value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	s.changed(key)
	return nil
}

// Reset removes any stored value for key so its default applies again.
func (s *Store) Reset(key string) error {
	if _, ok := keys[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}

	s.changed(key)
	return nil
}

// All returns every known key with its effective value.
func (s *Store) All() (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range Keys() {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// get returns the value of key, falling back to the default when the stored
// value fails to read.
func (s *Store) get(key string) string {
	v, err := s.Get(key)
	if err != nil {
		s.logger.Warn("read preference", "key", key, "err", err)
		v, _ = Default(key)
	}
	return v
}

func (s *Store) getBool(key string) bool {
	b, err := strconv.ParseBool(s.get(key))
	if err != nil {
		def, _ := Default(key)
		b, _ = strconv.ParseBool(def)
	}
	return b
}

// Theme returns the colour scheme, "system" by default.
func (s *Store) Theme() Theme {
	return Theme(s.get(KeyTheme))
}

// SetTheme stores the colour scheme.
func (s *Store) SetTheme(t Theme) error {
	return s.Set(KeyTheme, string(t))
}

// BloodPressureUnit returns the display unit for blood pressure, mmHg by default.
func (s *Store) BloodPressureUnit() models.BloodPressureUnit {
	return models.BloodPressureUnit(s.get(KeyBloodPressureUnit))
}

// SetBloodPressureUnit stores the display unit for blood pressure.
func (s *Store) SetBloodPressureUnit(u models.BloodPressureUnit) error {
	return s.Set(KeyBloodPressureUnit, string(u))
}

// WeightUnit returns the display unit for weight, kg by default.
func (s *Store) WeightUnit() models.WeightUnit {
	return models.WeightUnit(s.get(KeyWeightUnit))
}

// SetWeightUnit stores the display unit for weight.
func (s *Store) SetWeightUnit(u models.WeightUnit) error {
	return s.Set(KeyWeightUnit, string(u))
}

// WidgetEnabled reports whether w is enabled. Widgets are enabled by default.
func (s *Store) WidgetEnabled(w Widget) bool {
	return s.getBool(WidgetEnabledKey(w))
}

// SetWidgetEnabled enables or disables w.
func (s *Store) SetWidgetEnabled(w Widget, enabled bool) error {
	return s.Set(WidgetEnabledKey(w), strconv.FormatBool(enabled))
}

// StepGoalNotifications reports whether reaching the step goal is announced.
func (s *Store) StepGoalNotifications() bool {
	return s.getBool(KeyStepGoalNotifications)
}

// SetStepGoalNotifications turns step goal announcements on or off.
func (s *Store) SetStepGoalNotifications(on bool) error {
	return s.Set(KeyStepGoalNotifications, strconv.FormatBool(on))
}

// AddThemeListener registers l. Adding the same listener twice has no effect.
func (s *Store) AddThemeListener(l ThemeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.themeListeners {
		if sameListener(existing, l) {
			return
		}
	}
	s.themeListeners = append(s.themeListeners, l)
}

// RemoveThemeListener unregisters l.
func (s *Store) RemoveThemeListener(l ThemeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.themeListeners {
		if sameListener(existing, l) {
			s.themeListeners = append(s.themeListeners[:i:i], s.themeListeners[i+1:]...)
			return
		}
	}
}

// AddWidgetConfigListener registers l. Adding the same listener twice has no effect.
func (s *Store) AddWidgetConfigListener(l WidgetConfigListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.widgetListeners {
		if sameListener(existing, l) {
			return
		}
	}
	s.widgetListeners = append(s.widgetListeners, l)
}

// RemoveWidgetConfigListener unregisters l.
func (s *Store) RemoveWidgetConfigListener(l WidgetConfigListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.widgetListeners {
		if sameListener(existing, l) {
			s.widgetListeners = append(s.widgetListeners[:i:i], s.widgetListeners[i+1:]...)
			return
		}
	}
}

// sameListener reports whether a and b are the same listener. Comparing two
// values of the same non-comparable type reports false instead of panicking.
func sameListener(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// changed is the store's change callback. It runs listeners synchronously,
// in registration order, for tracked keys only. The listener lists are
// copied first so a listener may unregister itself.
func (s *Store) changed(key string) {
	switch {
	case key == KeyTheme:
		s.mu.RLock()
		listeners := append([]ThemeListener(nil), s.themeListeners...)
		s.mu.RUnlock()

		theme := s.Theme()
		for _, l := range listeners {
			l.ThemeChanged(theme)
		}
	case isWidgetKey(key):
		s.mu.RLock()
		listeners := append([]WidgetConfigListener(nil), s.widgetListeners...)
		s.mu.RUnlock()

		for _, l := range listeners {
			l.WidgetConfigChanged(s)
		}
	}
}

// badgerLogger routes badger's internal messages to the charm logger.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Errorf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warnf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}
