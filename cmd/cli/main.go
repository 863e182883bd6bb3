package main

import (
	"fmt"
	"os"

	"godag/adapters/excel"
	"godag/adapters/extract"
	"godag/adapters/solver/ccd"
	"godag/adapters/solver/discretecd"
	"godag/app"
	"godag/domain/dataset"
	"godag/domain/hyper"
	"godag/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "godag",
		Short: "DAG structure learning from tabular data",
	}

	rootCmd.AddCommand(newEstimateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEstimateCmd() *cobra.Command {
	var (
		dataType      string
		edgeThreshold int
		lambdaLength  int
		gamma         float64
		adaptive      bool
		verbose       bool
		reportPath    string
	)

	cmd := &cobra.Command{
		Use:   "estimate [file]",
		Short: "Estimate a DAG solution path from a .csv or .xlsx dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := excel.NewDataReader()
			if dataType != "" {
				reader.TypeOverride = dataset.DataType(dataType)
			}
			data, err := reader.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			req := app.EstimateRequest{
				Data:         data,
				LambdaLength: lambdaLength,
				Verbose:      verbose,
			}
			if cmd.Flags().Changed("edge-threshold") {
				req.Hyper.EdgeThreshold = &edgeThreshold
			}
			if cmd.Flags().Changed("gamma") {
				req.Hyper.Gamma = &gamma
			}
			req.Hyper.Adaptive = adaptive

			service := app.NewEstimationService(ccd.NewSolver(), discretecd.NewSolver(), extract.NewExtractor(), nil)
			result, err := service.EstimateDAG(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("run %s (%s, %d variables, %d samples)\n",
				result.RunID, result.Family, data.NumVars(), data.NumRows())
			fmt.Printf("%-4s %-12s %s\n", "#", "lambda", "edges")
			for i, entry := range result.Path {
				fmt.Printf("%-4d %-12.6f %d\n", i+1, entry.Lambda, entry.NEdges)
			}

			if reportPath != "" {
				html := report.HTML(report.Markdown(result))
				if err := os.WriteFile(reportPath, html, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Printf("report written to %s\n", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataType, "type", "", "override dataset type (continuous|discrete)")
	cmd.Flags().IntVar(&edgeThreshold, "edge-threshold", 0, "stop once the estimate carries more than this many edges")
	cmd.Flags().IntVar(&lambdaLength, "lambdas", 0, "lambda grid length (default 20)")
	cmd.Flags().Float64Var(&gamma, "gamma", hyper.DefaultGamma, "MCP concavity; negative selects the L1 penalty")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive penalty weights (discrete data)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-lambda progress")
	cmd.Flags().StringVar(&reportPath, "report", "", "write an HTML report to this path")

	return cmd
}
