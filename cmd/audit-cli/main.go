// Package main is a command line front end to the audit pipeline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"home-energy-audit/internal/config"
	"home-energy-audit/internal/handlers"
	"home-energy-audit/internal/models"
	"home-energy-audit/internal/services/audit"
	"home-energy-audit/internal/services/ses"
	"home-energy-audit/internal/utils"
)

var (
	profilePath string
	csvPath     string
	outPath     string
	format      string
	bill        float64
	logLevel    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "audit-cli",
		Short: "Run home energy audits from the command line",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return utils.InitLogger(logLevel)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Audit one home described by a JSON profile",
		RunE:  runAudit,
	}
	runCmd.Flags().StringVarP(&profilePath, "profile", "p", "-", "Path to the JSON home profile (- for stdin)")
	runCmd.Flags().Float64Var(&bill, "bill", 0, "Average monthly energy bill in dollars, overrides the profile")
	runCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Audit every home in a CSV file and write JSON lines",
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&csvPath, "csv", "", "Path to the home profile CSV")
	batchCmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file (- for stdout)")
	_ = batchCmd.MarkFlagRequired("csv")

	measuresCmd := &cobra.Command{
		Use:   "measures",
		Short: "List the retrofit measures evaluated by the engine",
		RunE:  listMeasures,
	}

	rootCmd.AddCommand(runCmd, batchCmd, measuresCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context) (*audit.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	rt, err := audit.Bootstrap(ctx, cfg, audit.Options{})
	if err != nil {
		return nil, err
	}
	return rt.Service, nil
}

func runAudit(cmd *cobra.Command, _ []string) error {
	data, err := readInput(profilePath)
	if err != nil {
		return err
	}

	var input models.HomeProfileInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}
	if cmd.Flags().Changed("bill") {
		input.MonthlyBill = &bill
	}

	svc, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	report, err := svc.Run(cmd.Context(), input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "text":
		_, err = io.WriteString(out, ses.RenderReportText(report))
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runBatch(cmd *cobra.Command, _ []string) error {
	data, err := readInput(csvPath)
	if err != nil {
		return err
	}

	svc, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	rows, parseErrors := utils.NewCSVParser().ParseProfiles(string(data))
	lines, summary := handlers.RunBatch(cmd.Context(), svc, rows, parseErrors)

	encoded, err := handlers.EncodeLines(lines)
	if err != nil {
		return err
	}

	if outPath == "-" {
		if _, err := cmd.OutOrStdout().Write(encoded); err != nil {
			return err
		}
	} else if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "audited %d homes: %d succeeded, %d failed\n",
		summary.Total, summary.Succeeded, summary.Failed)
	for _, e := range summary.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
	}
	return nil
}

func listMeasures(cmd *cobra.Command, _ []string) error {
	svc, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tLIFESPAN")
	for _, m := range handlers.Measures(svc.Catalog()) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d years\n", m.ID, m.Name, m.Category, m.LifespanYears)
	}
	return w.Flush()
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
