package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Volume is a value object representing a gas volume in kilograms.
// It is immutable - all operations return new Volume instances.
type Volume struct {
	kg decimal.Decimal
}

// NewVolume creates a new Volume from a decimal kilogram value
func NewVolume(kg decimal.Decimal) (Volume, error) {
	if kg.IsNegative() {
		return Volume{}, errors.New("volume cannot be negative")
	}
	return Volume{kg: kg}, nil
}

// NewVolumeFromFloat creates a Volume from a float64 kilogram value
func NewVolumeFromFloat(kg float64) (Volume, error) {
	return NewVolume(decimal.NewFromFloat(kg))
}

// ZeroVolume returns a zero volume
func ZeroVolume() Volume {
	return Volume{kg: decimal.Zero}
}

// Kilograms returns the decimal kilogram value
func (v Volume) Kilograms() decimal.Decimal {
	return v.kg
}

// IsZero returns true if the volume is zero
func (v Volume) IsZero() bool {
	return v.kg.IsZero()
}

// Sub returns the difference between this volume and the other.
// Returns error if the result would be negative.
func (v Volume) Sub(other Volume) (Volume, error) {
	diff := v.kg.Sub(other.kg)
	if diff.IsNegative() {
		return Volume{}, fmt.Errorf("volume subtraction underflow: %s - %s", v.kg, other.kg)
	}
	return Volume{kg: diff}, nil
}

// LessThanOrEqual returns true if this volume is at most the other
func (v Volume) LessThanOrEqual(other Volume) bool {
	return v.kg.LessThanOrEqual(other.kg)
}

// Exceeds returns true if this volume is strictly greater than the other
func (v Volume) Exceeds(other Volume) bool {
	return v.kg.GreaterThan(other.kg)
}

// Equals returns true if both volumes are equal
func (v Volume) Equals(other Volume) bool {
	return v.kg.Equal(other.kg)
}

// String returns the string representation (e.g., "7.5 kg")
func (v Volume) String() string {
	return fmt.Sprintf("%s kg", v.kg.String())
}
