// ABOUTME: Preference keys, widget names and theme values with their defaults.
// ABOUTME: Only the keys listed here can be stored.
package prefs

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/harperreed/healthlog/internal/models"
)

// Widget names one record kind shown by the application.
type Widget string

const (
	WidgetBloodPressure Widget = "blood_pressure"
	WidgetWeight        Widget = "weight"
	WidgetStepCount     Widget = "step_count"
)

// Widgets lists every widget in display order.
var Widgets = []Widget{WidgetBloodPressure, WidgetWeight, WidgetStepCount}

// ParseWidget accepts a widget name or one of its short aliases.
func ParseWidget(s string) (Widget, error) {
	switch s {
	case "blood_pressure", "bp":
		return WidgetBloodPressure, nil
	case "weight":
		return WidgetWeight, nil
	case "step_count", "steps":
		return WidgetStepCount, nil
	}
	return "", fmt.Errorf("unknown widget: %q (use blood_pressure, weight or step_count)", s)
}

// Theme is the user's colour scheme choice.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// Preference keys.
const (
	KeyTheme                 = "theme"
	KeyBloodPressureUnit     = "units.blood_pressure"
	KeyWeightUnit            = "units.weight"
	KeyStepGoalNotifications = "steps.goal_notifications"
)

// WidgetEnabledKey is the key of a widget's enable flag.
func WidgetEnabledKey(w Widget) string {
	return "widget." + string(w) + ".enabled"
}

type keySpec struct {
	def   string
	check func(string) error
}

var keys = map[string]keySpec{
	KeyTheme: {string(ThemeSystem), func(v string) error {
		if !Theme(v).IsValid() {
			return fmt.Errorf("unknown theme: %q (use system, light or dark)", v)
		}
		return nil
	}},
	KeyBloodPressureUnit: {string(models.UnitMmHg), func(v string) error {
		_, err := models.ParseBloodPressureUnit(v)
		return err
	}},
	KeyWeightUnit: {string(models.UnitKilogram), func(v string) error {
		_, err := models.ParseWeightUnit(v)
		return err
	}},
	KeyStepGoalNotifications: {"false", checkBool},
}

func init() {
	for _, w := range Widgets {
		keys[WidgetEnabledKey(w)] = keySpec{"true", checkBool}
	}
}

func checkBool(v string) error {
	if _, err := strconv.ParseBool(v); err != nil {
		return fmt.Errorf("not a boolean: %q", v)
	}
	return nil
}

// Keys returns every known preference key, sorted.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Default returns the default value of key.
func Default(key string) (string, bool) {
	spec, ok := keys[key]
	return spec.def, ok
}

func isWidgetKey(key string) bool {
	for _, w := range Widgets {
		if key == WidgetEnabledKey(w) {
			return true
		}
	}
	return false
}
