package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCents(t *testing.T) {
	assert.Equal(t, int64(1037), Cents(10.37))
	assert.Equal(t, int64(0), Cents(0))
	assert.Equal(t, int64(1), Cents(0.01))
	assert.Equal(t, int64(950000), Cents(9500.0))

	// Сумма в float64 чуть больше точного значения, копейки совпадают
	assert.Equal(t, Cents(10.37), Cents(9.98+0.39))
	assert.Equal(t, Cents(0.3), Cents(0.1+0.2))
}
