// ABOUTME: Measurement units and pure numeric conversions between them.
// ABOUTME: Blood pressure mmHg<->kPa, weight kg<->lb, and display rounding.
package models

import (
	"fmt"
	"math"
)

// BloodPressureUnit is the unit a blood pressure reading is stored in.
type BloodPressureUnit string

const (
	UnitMmHg BloodPressureUnit = "mmHg"
	UnitKPa  BloodPressureUnit = "kPa"
)

// WeightUnit is the unit a weight reading is stored in.
type WeightUnit string

const (
	UnitKilogram WeightUnit = "kg"
	UnitPound    WeightUnit = "lb"
)

const (
	// KPaPerMmHg converts millimetres of mercury to kilopascals.
	KPaPerMmHg = 0.133322
	// KilogramsPerPound is the international avoirdupois pound.
	KilogramsPerPound = 0.45359237
)

// IsValid reports whether u is one of the known blood pressure units.
func (u BloodPressureUnit) IsValid() bool {
	return u == UnitMmHg || u == UnitKPa
}

// IsValid reports whether u is one of the known weight units.
func (u WeightUnit) IsValid() bool {
	return u == UnitKilogram || u == UnitPound
}

// ParseBloodPressureUnit accepts the canonical unit names case-sensitively.
func ParseBloodPressureUnit(s string) (BloodPressureUnit, error) {
	u := BloodPressureUnit(s)
	if !u.IsValid() {
		return "", fmt.Errorf("unknown blood pressure unit: %q (use mmHg or kPa)", s)
	}
	return u, nil
}

// ParseWeightUnit accepts "kg" or "lb".
func ParseWeightUnit(s string) (WeightUnit, error) {
	u := WeightUnit(s)
	if !u.IsValid() {
		return "", fmt.Errorf("unknown weight unit: %q (use kg or lb)", s)
	}
	return u, nil
}

// ConvertBloodPressure converts value between blood pressure units.
func ConvertBloodPressure(value float64, from, to BloodPressureUnit) float64 {
	switch {
	case from == to:
		return value
	case from == UnitMmHg && to == UnitKPa:
		return value * KPaPerMmHg
	case from == UnitKPa && to == UnitMmHg:
		return value / KPaPerMmHg
	}
	return value
}

// ConvertWeight converts value between weight units.
func ConvertWeight(value float64, from, to WeightUnit) float64 {
	switch {
	case from == to:
		return value
	case from == UnitPound && to == UnitKilogram:
		return value * KilogramsPerPound
	case from == UnitKilogram && to == UnitPound:
		return value / KilogramsPerPound
	}
	return value
}

// RoundHalfAwayFromZero rounds v to the given number of decimals,
// with halves rounded away from zero (2.5 -> 3, -2.5 -> -3).
func RoundHalfAwayFromZero(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
