package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"polymer-kinetics-api/internal/ioformats"
	"polymer-kinetics-api/internal/models"
)

func init() {
	calculateCmd.Flags().Float64P("temperature", "t", 25, "temperature in °C")

	batchCmd.Flags().StringP("input", "i", "", "input file (csv with a 'monomer' column, or ndjson)")
	batchCmd.Flags().StringP("output", "o", "", "output NDJSON file (default stdout)")
	batchCmd.Flags().String("identifier", "name", "identifier used by the input monomers")
	batchCmd.Flags().Float64P("temperature", "t", 25, "temperature in °C")
	batchCmd.Flags().Int("concurrency", 4, "monomers processed at once")
	_ = batchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(monomersCmd, solutionsCmd, kpCmd, calculateCmd, batchCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var monomersCmd = &cobra.Command{
	Use:   "monomers <identifier>",
	Short: "Lists every monomer in the database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := svc.Monomers(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(names)
		}
		t := newTable()
		t.AppendHeader(table.Row{"Monomer"})
		for _, n := range names {
			t.AppendRow(table.Row{n})
		}
		t.Render()
		return nil
	},
}

var solutionsCmd = &cobra.Command{
	Use:   "solutions <monomer> <identifier>",
	Short: "Lists the solutions the database has coefficient tables for.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		solutions, err := svc.Solutions(cmd.Context(), args[1], args[0])
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(solutions)
		}
		t := newTable()
		t.AppendHeader(table.Row{"Solution"})
		for _, s := range solutions {
			t.AppendRow(table.Row{s})
		}
		t.Render()
		return nil
	},
}

var kpCmd = &cobra.Command{
	Use:   "kp <monomer> <identifier>",
	Short: "Prints the kp Arrhenius parameters of every solution of a monomer.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := svc.Coefficients(cmd.Context(), args[1], args[0])
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(set)
		}
		printCoefficientTable(set["kp"])
		return nil
	},
}

// printCoefficientTable renders one row per solution. Columns follow the
// first record; fields only present in later records get appended.
func printCoefficientTable(ct models.CoefficientTable) {
	var columns []string
	seen := map[string]bool{}
	ct.Each(func(_ string, rec models.InfoRecord) {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	})

	header := table.Row{"Solution"}
	for _, c := range columns {
		header = append(header, c)
	}
	t := newTable()
	t.AppendHeader(header)
	ct.Each(func(solution string, rec models.InfoRecord) {
		row := table.Row{solution}
		for _, c := range columns {
			v, _ := rec.Get(c)
			row = append(row, v.String())
		}
		t.AppendRow(row)
	})
	t.Render()
}

var calculateCmd = &cobra.Command{
	Use:   "calculate <monomer> <identifier>",
	Short: "Computes kp at a temperature for every solution of a monomer.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		temperature, _ := cmd.Flags().GetFloat64("temperature")
		kp, err := svc.CalculateKp(cmd.Context(), args[1], args[0], temperature)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(kp)
		}
		t := newTable()
		t.AppendHeader(table.Row{"Solution", fmt.Sprintf("kp at %g °C [L/(mol s)]", temperature)})
		kp.Each(func(solution string, v float64) {
			t.AppendRow(table.Row{solution, fmt.Sprintf("%.4g", v)})
		})
		t.Render()
		return nil
	},
}

type batchRecord struct {
	Monomer string           `json:"monomer"`
	Kp      *models.KpResult `json:"kp,omitempty"`
	Error   string           `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Computes kp for every monomer listed in a file and writes NDJSON.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("input")
		out, _ := cmd.Flags().GetString("output")
		identifier, _ := cmd.Flags().GetString("identifier")
		temperature, _ := cmd.Flags().GetFloat64("temperature")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if _, err := models.ParseIdentifier(identifier); err != nil {
			return err
		}

		monomers, err := ioformats.ReadMonomers(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		results := make([]batchRecord, len(monomers))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(max(concurrency, 1))
		for i, m := range monomers {
			i, m := i, m
			g.Go(func() error {
				kp, err := svc.CalculateKp(ctx, identifier, m, temperature)
				if err != nil {
					results[i] = batchRecord{Monomer: m, Error: err.Error()}
					return nil
				}
				results[i] = batchRecord{Monomer: m, Kp: &kp}
				return nil
			})
		}
		_ = g.Wait()

		w := os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		return ioformats.WriteNDJSON(w, results)
	},
}
