package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosbany/ordenes-sub000/entities"
)

func conversionTable() []entities.UnitConversion {
	return []entities.UnitConversion{
		{FromUnit: "kg", ToUnit: "g", Factor: 1000},
		{FromUnit: "l", ToUnit: "ml", Factor: 1000},
		{FromUnit: "l", ToUnit: "kg", Factor: 1},
	}
}

func TestResolveFactor(t *testing.T) {
	table := conversionTable()

	tests := []struct {
		name string
		from string
		to   string
		want float64
	}{
		{name: "identity needs no lookup", from: "kg", to: "kg", want: 1},
		{name: "direct entry", from: "kg", to: "g", want: 1000},
		{name: "reciprocal entry", from: "g", to: "kg", want: 0.001},
		{name: "single hop via kg", from: "g", to: "l", want: 0.001},
		{name: "single hop via l", from: "ml", to: "kg", want: 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFactor(tt.from, tt.to, table)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestResolveFactorUnresolvable(t *testing.T) {
	table := conversionTable()

	_, err := ResolveFactor("kg", "unit", table)
	require.Error(t, err)

	var convErr *UnitConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "kg", convErr.FromUnit)
	assert.Equal(t, "unit", convErr.ToUnit)
}

func TestResolveFactorIdentityIgnoresTable(t *testing.T) {
	got, err := ResolveFactor("unit", "unit", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestResolveFactorRoundTrip(t *testing.T) {
	table := conversionTable()

	pairs := [][2]string{{"kg", "g"}, {"l", "ml"}, {"l", "kg"}, {"g", "l"}}
	for _, pair := range pairs {
		forward, err := ResolveFactor(pair[0], pair[1], table)
		require.NoError(t, err)
		backward, err := ResolveFactor(pair[1], pair[0], table)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, forward*backward, 1e-9, "round trip %s<->%s", pair[0], pair[1])
	}
}
