package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/ingest"
)

var (
	importXLSXPath string
	importOutPath  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a customer workbook into the bulk dataset file",
	Long:  "Reads an XLSX workbook with individuals, organizations, contracts, claims, and guarantees sheets and writes the JSON dataset the other commands load.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := importOutPath
		if out == "" {
			out = cfg.Dataset.Path
		}

		ds, err := ingest.ConvertWorkbook(importXLSXPath)
		if err != nil {
			return eris.Wrap(err, "convert workbook")
		}

		if err := ds.WriteJSON(out); err != nil {
			return eris.Wrap(err, "write dataset")
		}

		zap.L().Info("import complete",
			zap.String("xlsx", importXLSXPath),
			zap.String("out", out),
			zap.Int("individuals", len(ds.Individuals)),
			zap.Int("organizations", len(ds.Organizations)),
			zap.Int("contracts", len(ds.Contracts)),
			zap.Int("claims", len(ds.Claims)),
			zap.Int("guarantees", len(ds.Guarantees)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to XLSX workbook (required)")
	importCmd.Flags().StringVar(&importOutPath, "out", "", "output dataset path (default from config)")
	_ = importCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(importCmd)
}
