
package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	for _, id := range Identifiers {
		got, err := ParseIdentifier(string(id))
		require.NoError(t, err)
		require.Equal(t, id, got)
	}

	_, err := ParseIdentifier("smiles")
	require.True(t, errors.Is(err, ErrInvalidArgument))
	require.EqualError(t, err, "invalid identifier (smiles), use one of [name, SMILES, CAS, InChI, InChIKey, abbreviation]")
}

func TestInfoRecordJSONKeepsOrder(t *testing.T) {
	var rec InfoRecord
	rec.Set("Tmax", Number(100))
	rec.Set("A", Number(1.2e7))
	rec.Set("Reference", Text("http://x"))
	rec.Set("Tmax", Text("unknown"))

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	require.Equal(t, `{"Tmax":"unknown","A":12000000,"Reference":"http://x"}`, string(b))

	var back InfoRecord
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, rec.Keys(), back.Keys())
	a, _ := back.Get("A")
	require.Equal(t, Number(1.2e7), a)
	tmax, _ := back.Get("Tmax")
	require.Equal(t, Text("unknown"), tmax)
}

func TestEmptyOrderedMarshalsAsObject(t *testing.T) {
	b, err := json.Marshal(CoefficientSet{"kp": CoefficientTable{}})
	require.NoError(t, err)
	require.Equal(t, `{"kp":{}}`, string(b))
}

func TestValueString(t *testing.T) {
	require.Equal(t, "18000", Number(18000).String())
	require.Equal(t, "1.2e+07", Number(1.2e7).String())
	require.Equal(t, "bulk", Text("bulk").String())
}
