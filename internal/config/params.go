package config

import (
	"fmt"
	"os"

	sd "github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/buchwerk/tax-engine/internal/calculation"
	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// yearParametersDocument is the YAML shape of one tax year's constants.
// Euro boundaries are whole euros; coefficients and rates are plain numbers
// as printed in the statute.
type yearParametersDocument struct {
	Year           int     `yaml:"year"`
	BasicAllowance int64   `yaml:"basic_allowance"`
	Zone2Upper     int64   `yaml:"zone2_upper"`
	Zone3Upper     int64   `yaml:"zone3_upper"`
	Zone4Upper     int64   `yaml:"zone4_upper"`
	Zone2A         float64 `yaml:"zone2_a"`
	Zone2B         float64 `yaml:"zone2_b"`
	Zone3A         float64 `yaml:"zone3_a"`
	Zone3B         float64 `yaml:"zone3_b"`
	Zone3C         float64 `yaml:"zone3_c"`
	Zone4Rate      float64 `yaml:"zone4_rate"`
	Zone4Sub       float64 `yaml:"zone4_sub"`
	Zone5Rate      float64 `yaml:"zone5_rate"`
	Zone5Sub       float64 `yaml:"zone5_sub"`
	SoliRate       float64 `yaml:"soli_rate"`
	SoliExemption  int64   `yaml:"soli_exemption"`
	SoliGlideRate  float64 `yaml:"soli_glide_rate"`
	EmployeeLump   int64   `yaml:"employee_lump_sum"`
	SpecialLump    int64   `yaml:"special_expense_lump_sum"`
}

type parameterFileDocument struct {
	Years []yearParametersDocument `yaml:"years"`
}

// LoadParameterOverrides reads additional or replacement tax-year parameter
// records from a YAML file and registers them into the table. Adding a new
// assessment year is a data change only.
func (ip *InputParser) LoadParameterOverrides(filename string, table *calculation.ParameterTable) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var doc parameterFileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.ConfigurationError("failed to parse YAML: %v", err)
	}
	if len(doc.Years) == 0 {
		return domain.ConfigurationError("parameter file %s contains no years", filename)
	}

	for _, yd := range doc.Years {
		params := calculation.TaxYearParameters{
			Year:                  yd.Year,
			BasicAllowance:        decimal.NewMoneyFromInt(yd.BasicAllowance),
			Zone2Upper:            decimal.NewMoneyFromInt(yd.Zone2Upper),
			Zone3Upper:            decimal.NewMoneyFromInt(yd.Zone3Upper),
			Zone4Upper:            decimal.NewMoneyFromInt(yd.Zone4Upper),
			Zone2A:                sd.NewFromFloat(yd.Zone2A),
			Zone2B:                sd.NewFromFloat(yd.Zone2B),
			Zone3A:                sd.NewFromFloat(yd.Zone3A),
			Zone3B:                sd.NewFromFloat(yd.Zone3B),
			Zone3C:                sd.NewFromFloat(yd.Zone3C),
			Zone4Rate:             sd.NewFromFloat(yd.Zone4Rate),
			Zone4Sub:              sd.NewFromFloat(yd.Zone4Sub),
			Zone5Rate:             sd.NewFromFloat(yd.Zone5Rate),
			Zone5Sub:              sd.NewFromFloat(yd.Zone5Sub),
			SoliRate:              sd.NewFromFloat(yd.SoliRate),
			SoliExemption:         decimal.NewMoneyFromInt(yd.SoliExemption),
			SoliGlideRate:         sd.NewFromFloat(yd.SoliGlideRate),
			EmployeeLumpSum:       decimal.NewMoneyFromInt(yd.EmployeeLump),
			SpecialExpenseLumpSum: decimal.NewMoneyFromInt(yd.SpecialLump),
		}
		if err := table.Register(params); err != nil {
			return err
		}
	}
	return nil
}
