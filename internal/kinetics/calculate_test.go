package kinetics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"polymer-kinetics-api/internal/models"
)

func TestArrhenius(t *testing.T) {
	want := 1.2e7 * math.Exp(-18000/(8.31446261815324*298.15))
	require.InEpsilon(t, want, Arrhenius(1.2e7, 18000, 25), 1e-12)
	require.Equal(t, 5.0, Arrhenius(5, 0, 60))
}

func TestCalculateKp(t *testing.T) {
	svc := newService(newFake())
	kp, err := svc.CalculateKp(context.Background(), "name", "styrene", 25)
	require.NoError(t, err)
	require.Equal(t, []string{"bulk", "toluene"}, kp.Keys())

	bulk, _ := kp.Get("bulk")
	require.Equal(t, Arrhenius(1.2e7, 18000, 25), bulk)
	toluene, _ := kp.Get("toluene")
	require.Equal(t, Arrhenius(4.27e7, 32500, 25), toluene)
}

func TestCalculateKpNonNumericParameter(t *testing.T) {
	up := newFake()
	up.tables["toluene"] = fmt.Sprintf(tablePage, "unknown", "32500", "http://y")
	_, err := newService(up).CalculateKp(context.Background(), "name", "styrene", 25)

	var me *MissingParameterError
	require.True(t, errors.As(err, &me))
	require.Equal(t, "toluene", me.Solution)
	require.Equal(t, "A", me.Field)
	require.Equal(t, "unknown", me.Value)
}

func TestKpFromTableMissingParameter(t *testing.T) {
	var rec models.InfoRecord
	rec.Set("A", models.Number(1))
	var table models.CoefficientTable
	table.Set("bulk", rec)

	_, err := KpFromTable(table, 25)
	var me *MissingParameterError
	require.True(t, errors.As(err, &me))
	require.Equal(t, "Ea", me.Field)
}

func TestCalculateKpRejectsImpossibleTemperature(t *testing.T) {
	up := newFake()
	for _, temp := range []float64{-273.15, -300, math.NaN(), math.Inf(1)} {
		_, err := newService(up).CalculateKp(context.Background(), "name", "styrene", temp)
		require.ErrorIs(t, err, models.ErrInvalidArgument)
	}
	require.Zero(t, up.calls)
}
