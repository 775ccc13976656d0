// Package kinetics aggregates propagation coefficient tables scraped from the
// polymer database and derives rate constants from them.
package kinetics

import (
	"context"
	"errors"
	"fmt"

	"polymer-kinetics-api/internal/models"
	"polymer-kinetics-api/internal/normalize"
	"polymer-kinetics-api/internal/parser"
	"polymer-kinetics-api/internal/upstream"
	"polymer-kinetics-api/pkg/logger"
)

// ErrMonomerNotFound is returned when the database does not know a monomer.
var ErrMonomerNotFound = errors.New("monomer not in database")

// SupportedCoefficients are the coefficient tables collected per monomer.
var SupportedCoefficients = []string{"kp"}

// Upstream is the subset of *upstream.Client used by Service.
type Upstream interface {
	Monomers(ctx context.Context, identifier string) (upstream.Response, error)
	Solutions(ctx context.Context, identifier, monomer string) (upstream.Response, error)
	Table(ctx context.Context, q upstream.TableQuery) (upstream.Response, error)
}

type Service struct {
	up     Upstream
	parser *parser.Parser
	log    *logger.Logger
}

func NewService(up Upstream, p *parser.Parser, l *logger.Logger) *Service {
	return &Service{up: up, parser: p, log: l}
}

// Monomers lists every monomer in the database, named by identifier.
func (s *Service) Monomers(ctx context.Context, identifier string) ([]string, error) {
	id, err := models.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	res, err := s.up.Monomers(ctx, string(id))
	if err != nil {
		return nil, err
	}
	nodes, err := s.parser.TextNodes(res.Body, res.ContentType)
	if err != nil {
		return nil, fmt.Errorf("parse monomer list: %w", err)
	}
	return dropTrailingArtifact(nodes), nil
}

// dropTrailingArtifact removes the last node of the monomer listing.
// getMonomers.php always closes the list with one node that is not a
// monomer, so the list is cut by position rather than by content.
func dropTrailingArtifact(nodes []string) []string {
	if len(nodes) == 0 {
		return []string{}
	}
	return nodes[:len(nodes)-1]
}

// Solutions lists the solution labels the database has tables for.
func (s *Service) Solutions(ctx context.Context, identifier, monomer string) ([]string, error) {
	id, err := validate(identifier, monomer)
	if err != nil {
		return nil, err
	}
	return s.solutions(ctx, id, monomer)
}

func (s *Service) solutions(ctx context.Context, id models.Identifier, monomer string) ([]string, error) {
	res, err := s.up.Solutions(ctx, string(id), monomer)
	if err != nil {
		return nil, err
	}
	doc, err := s.parser.Parse(res.Body, res.ContentType)
	if errors.Is(err, parser.ErrEmptyBody) {
		return nil, fmt.Errorf("%w: %s", ErrMonomerNotFound, monomer)
	}
	if err != nil {
		return nil, fmt.Errorf("parse solutions: %w", err)
	}
	return s.parser.Options(doc), nil
}

// Coefficients collects every supported coefficient table of a monomer, one
// upstream request per solution. Any failure aborts the whole collection.
func (s *Service) Coefficients(ctx context.Context, identifier, monomer string) (models.CoefficientSet, error) {
	id, err := validate(identifier, monomer)
	if err != nil {
		return nil, err
	}
	solutions, err := s.solutions(ctx, id, monomer)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("monomer %q has %d solutions", monomer, len(solutions))

	set := make(models.CoefficientSet, len(SupportedCoefficients))
	for _, coefficient := range SupportedCoefficients {
		var table models.CoefficientTable
		for _, solution := range solutions {
			rec, err := s.record(ctx, upstream.TableQuery{
				Identifier:  string(id),
				Monomer:     monomer,
				Coefficient: coefficient,
				Solution:    solution,
			})
			if err != nil {
				return nil, fmt.Errorf("%s for %q in %q: %w", coefficient, monomer, solution, err)
			}
			table.Set(solution, rec)
		}
		set[coefficient] = table
	}
	return set, nil
}

func (s *Service) record(ctx context.Context, q upstream.TableQuery) (models.InfoRecord, error) {
	res, err := s.up.Table(ctx, q)
	if err != nil {
		return models.InfoRecord{}, err
	}
	s.log.Debugf("table %s/%s for %q fetched in %s", q.Coefficient, q.Solution, q.Monomer, res.Elapsed)
	t, err := s.parser.Table(res.Body, res.ContentType)
	if err != nil {
		return models.InfoRecord{}, err
	}
	rec := normalize.Record(t.Headers, t.Cells)
	normalize.Apply(&rec)
	return rec, nil
}

func validate(identifier, monomer string) (models.Identifier, error) {
	id, err := models.ParseIdentifier(identifier)
	if err != nil {
		return "", err
	}
	if monomer == "" {
		return "", fmt.Errorf("%w: monomer is required", models.ErrInvalidArgument)
	}
	return id, nil
}
