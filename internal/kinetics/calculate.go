package kinetics

import (
	"context"
	"fmt"
	"math"

	"polymer-kinetics-api/internal/models"
)

const (
	// GasConstant in J/(mol K).
	GasConstant = 8.31446261815324
	// ZeroCelsius in K.
	ZeroCelsius = 273.15
)

// MissingParameterError is returned when a solution lacks a numeric
// Arrhenius parameter.
type MissingParameterError struct {
	Solution string
	Field    string
	Value    string
}

func (e *MissingParameterError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("solution %q: missing %s", e.Solution, e.Field)
	}
	return fmt.Sprintf("solution %q: %s is not numeric (%q)", e.Solution, e.Field, e.Value)
}

// Arrhenius returns A * exp(-Ea / (R * T)) with T given in degrees Celsius.
func Arrhenius(a, ea, celsius float64) float64 {
	return a * math.Exp(-ea/(GasConstant*(ZeroCelsius+celsius)))
}

// CalculateKp computes kp at the given temperature for every solution the
// database has Arrhenius parameters for.
func (s *Service) CalculateKp(ctx context.Context, identifier, monomer string, celsius float64) (models.KpResult, error) {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) || celsius <= -ZeroCelsius {
		return models.KpResult{}, fmt.Errorf("%w: temperature must be above %g °C", models.ErrInvalidArgument, -ZeroCelsius)
	}
	set, err := s.Coefficients(ctx, identifier, monomer)
	if err != nil {
		return models.KpResult{}, err
	}
	return KpFromTable(set["kp"], celsius)
}

// KpFromTable applies Arrhenius to every record of table.
func KpFromTable(table models.CoefficientTable, celsius float64) (models.KpResult, error) {
	var out models.KpResult
	for _, solution := range table.Keys() {
		rec, _ := table.Get(solution)
		a, err := param(solution, rec, "A")
		if err != nil {
			return models.KpResult{}, err
		}
		ea, err := param(solution, rec, "Ea")
		if err != nil {
			return models.KpResult{}, err
		}
		out.Set(solution, Arrhenius(a, ea, celsius))
	}
	return out, nil
}

func param(solution string, rec models.InfoRecord, field string) (float64, error) {
	v, ok := rec.Get(field)
	if !ok {
		return 0, &MissingParameterError{Solution: solution, Field: field}
	}
	f, ok := v.Float()
	if !ok {
		return 0, &MissingParameterError{Solution: solution, Field: field, Value: v.String()}
	}
	return f, nil
}
