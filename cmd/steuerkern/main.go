package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/buchwerk/tax-engine/internal/calculation"
	"github.com/buchwerk/tax-engine/internal/config"
	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/internal/output"
	"github.com/buchwerk/tax-engine/internal/sequence"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "steuerkern",
		Short:        "Tax computation core for German sole proprietors",
		Long:         "steuerkern computes income tax, solidarity surcharge, trade tax, depreciation schedules and VAT netting from aggregated yearly inputs, and issues gap-free invoice numbers.",
		SilenceUsage: true,
	}
	root.AddCommand(newAnnualCommand())
	root.AddCommand(newParamsCommand())
	root.AddCommand(newInvoiceNumberCommand())
	return root
}

func newAnnualCommand() *cobra.Command {
	var (
		inputFile  string
		paramsFile string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "annual",
		Short: "Compute the annual tax package from a YAML input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()

			table := calculation.NewParameterTable()
			if paramsFile != "" {
				if err := parser.LoadParameterOverrides(paramsFile, table); err != nil {
					return err
				}
			}

			in, err := parser.LoadAnnualInput(inputFile)
			if err != nil {
				return err
			}

			pkg, err := calculation.NewAssembler(table).Assemble(in)
			if err != nil {
				return err
			}

			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown output format %q", format)
			}
			data, err := formatter.Format(pkg)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(data)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "annual input YAML file (required)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "optional tax-year parameter override YAML file")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: console or json")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newParamsCommand() *cobra.Command {
	var paramsFile string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "List the registered tax years and their key constants",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := calculation.NewParameterTable()
			if paramsFile != "" {
				if err := config.NewInputParser().LoadParameterOverrides(paramsFile, table); err != nil {
					return err
				}
			}

			years := table.Years()
			sort.Ints(years)
			for _, y := range years {
				p, err := table.Lookup(y)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d: basic allowance %s, Soli exemption %s\n",
					y, p.BasicAllowance.Format(), p.SoliExemption.Format())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsFile, "params", "", "optional tax-year parameter override YAML file")
	return cmd
}

func newInvoiceNumberCommand() *cobra.Command {
	var (
		streamName string
		year       int
		dsn        string
	)

	cmd := &cobra.Command{
		Use:   "invoice-number",
		Short: "Draw the next invoice number for a stream and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			stream, err := domain.ParseStream(streamName)
			if err != nil {
				return err
			}

			db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			store := sequence.NewGormStore(db, logger)
			if err := store.AutoMigrate(); err != nil {
				return fmt.Errorf("migrating counter table: %w", err)
			}

			number, err := sequence.NewGenerator(store, logger).Next(cmd.Context(), stream, year)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), number)
			return nil
		},
	}

	cmd.Flags().StringVar(&streamName, "stream", "", "business stream: freiberuf or gewerbe (required)")
	cmd.Flags().IntVar(&year, "year", 0, "fiscal year (required)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "postgres DSN of the counter database (required)")
	cmd.MarkFlagRequired("stream")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("dsn")
	return cmd
}
