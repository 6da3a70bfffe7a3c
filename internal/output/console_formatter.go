package output

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/buchwerk/tax-engine/internal/domain"
)

// ConsoleFormatter provides a concise console style summary of the annual
// package via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(pkg *domain.AnnualPackage) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ANNUAL TAX PACKAGE %d\n", pkg.Year)
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Employment income:      %s\n", FormatCurrency(pkg.EmploymentIncome))
	fmt.Fprintf(&buf, "Freiberuf profit:       %s\n", FormatCurrency(pkg.FreiberufProfit))
	fmt.Fprintf(&buf, "Gewerbe profit:         %s\n", FormatCurrency(pkg.GewerbeProfit))
	fmt.Fprintf(&buf, "Depreciation total:     %s\n", FormatCurrency(pkg.DepreciationTotal))
	fmt.Fprintf(&buf, "Taxable income:         %s\n", FormatCurrency(pkg.TaxableIncome))
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Income tax (zone %d):    %s  marginal %s%%\n",
		pkg.IncomeTax.Zone, FormatCurrency(pkg.IncomeTax.Tax), pkg.IncomeTax.MarginalRatePercent.StringFixed(2))
	fmt.Fprintf(&buf, "Solidarity surcharge:   %s\n", FormatCurrency(pkg.SolidaritySurcharge))
	fmt.Fprintf(&buf, "Trade tax:              %s (credit %s, net %s)\n",
		FormatCurrency(pkg.TradeTax.TradeTax), FormatCurrency(pkg.TradeTax.Credit), FormatCurrency(pkg.TradeTax.NetBurden))
	fmt.Fprintf(&buf, "Total burden:           %s\n", FormatCurrency(pkg.TotalBurden))
	fmt.Fprintln(&buf)

	if pkg.Vat.Kleinunternehmer {
		fmt.Fprintln(&buf, "VAT: Kleinunternehmer, no VAT obligations")
	} else {
		fmt.Fprintf(&buf, "VAT: output %s  input %s  payable %s\n",
			FormatCurrency(pkg.Vat.OutputVat), FormatCurrency(pkg.Vat.InputVat), FormatCurrency(pkg.Vat.NetPayable))
		streams := make([]domain.Stream, 0, len(pkg.Vat.PerStream))
		for s := range pkg.Vat.PerStream {
			streams = append(streams, s)
		}
		sort.Slice(streams, func(i, j int) bool { return streams[i] < streams[j] })
		for _, s := range streams {
			t := pkg.Vat.PerStream[s]
			fmt.Fprintf(&buf, "  %-10s output %s  input %s\n", s, FormatCurrency(t.Output), FormatCurrency(t.Input))
		}
	}
	return buf.Bytes(), nil
}
