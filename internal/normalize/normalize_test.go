package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"polymer-kinetics-api/internal/models"
)

func TestStripUnits(t *testing.T) {
	require.Equal(t, "18000", StripUnits("18000 J · mol-1"))
	require.Equal(t, "1.2e7 ", StripUnits("1.2e7 L · mol-1s-1"))
	require.Equal(t, "bulk", StripUnits("bulk"))
}

func TestApply(t *testing.T) {
	rec := Record(
		[]string{"Temperature", "A", "Ea", "Tmin", "Tmax", "Reference"},
		[]string{"25", "1.2e7 ", "18000", "0", "100", "http://x"},
	)
	Apply(&rec)

	require.Equal(t, []string{"Temperature", "A", "Ea", "Tmin", "Tmax", "Reference"}, rec.Keys())

	temp, _ := rec.Get("Temperature")
	require.False(t, temp.IsNumber(), "only designated fields are coerced")
	require.Equal(t, "25", temp.String())

	for field, want := range map[string]float64{"A": 1.2e7, "Ea": 18000, "Tmin": 0, "Tmax": 100} {
		v, ok := rec.Get(field)
		require.True(t, ok, field)
		got, ok := v.Float()
		require.True(t, ok, field)
		require.Equal(t, want, got, field)
	}
}

func TestApplyKeepsUnparseableText(t *testing.T) {
	rec := Record([]string{"A", "Ea", "Tmax"}, []string{"unknown", "", "NaN"})
	Apply(&rec)

	for _, field := range []string{"A", "Ea", "Tmax"} {
		v, _ := rec.Get(field)
		require.False(t, v.IsNumber(), field)
	}
	a, _ := rec.Get("A")
	require.Equal(t, models.Text("unknown"), a)
}

func TestRecordDuplicateHeader(t *testing.T) {
	rec := Record([]string{"A", "Note", "A"}, []string{"1", "x", "2"})
	require.Equal(t, []string{"A", "Note"}, rec.Keys())
	a, _ := rec.Get("A")
	require.Equal(t, "2", a.String())
}

func TestNumber(t *testing.T) {
	for text, want := range map[string]float64{"1.2e7 ": 1.2e7, " -3": -3, "+0.5": 0.5, "100": 100} {
		got, ok := Number(text)
		require.True(t, ok, text)
		require.Equal(t, want, got, text)
	}
	for _, text := range []string{"0x1p4", "-0X10", "+0x1.8p1", "Inf", "-infinity", "nan", "", "12 kJ"} {
		_, ok := Number(text)
		require.False(t, ok, text)
	}
}
