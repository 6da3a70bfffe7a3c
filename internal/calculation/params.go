package calculation

import (
	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// TaxYearParameters holds the statutory constants of one assessment year.
// Constants are data, not code: adding a new year means adding a record,
// never touching calculator logic. Records are immutable once registered.
type TaxYearParameters struct {
	Year int

	// §32a tariff zones. BasicAllowance is the Grundfreibetrag; the upper
	// boundaries delimit zones 2-4, zone 5 is open-ended.
	BasicAllowance decimal.Money
	Zone2Upper     decimal.Money
	Zone3Upper     decimal.Money
	Zone4Upper     decimal.Money

	// Progression coefficients: zone 2 tax is (a2*y + b2)*y with
	// y = (income - BasicAllowance)/10000, zone 3 is (a3*z + b3)*z + c3
	// with z = (income - Zone2Upper)/10000.
	Zone2A sd.Decimal
	Zone2B sd.Decimal
	Zone3A sd.Decimal
	Zone3B sd.Decimal
	Zone3C sd.Decimal

	// Flat zones: tax = rate*income - subtraction.
	Zone4Rate sd.Decimal
	Zone4Sub  sd.Decimal
	Zone5Rate sd.Decimal
	Zone5Sub  sd.Decimal

	// Solidarity surcharge: zero at or below the exemption (Freigrenze),
	// then min(Rate*tax, GlideRate*(tax-exemption)).
	SoliRate      sd.Decimal
	SoliExemption decimal.Money
	SoliGlideRate sd.Decimal

	// Flat per-person deduction allowances.
	EmployeeLumpSum       decimal.Money // Arbeitnehmer-Pauschbetrag
	SpecialExpenseLumpSum decimal.Money // Sonderausgaben-Pauschbetrag
}

func year2023() TaxYearParameters {
	return TaxYearParameters{
		Year:                  2023,
		BasicAllowance:        decimal.NewMoneyFromInt(10908),
		Zone2Upper:            decimal.NewMoneyFromInt(15999),
		Zone3Upper:            decimal.NewMoneyFromInt(62809),
		Zone4Upper:            decimal.NewMoneyFromInt(277825),
		Zone2A:                sd.NewFromFloat(979.18),
		Zone2B:                sd.NewFromInt(1400),
		Zone3A:                sd.NewFromFloat(192.59),
		Zone3B:                sd.NewFromInt(2397),
		Zone3C:                sd.NewFromFloat(966.53),
		Zone4Rate:             sd.NewFromFloat(0.42),
		Zone4Sub:              sd.NewFromFloat(9972.98),
		Zone5Rate:             sd.NewFromFloat(0.45),
		Zone5Sub:              sd.NewFromFloat(18307.73),
		SoliRate:              sd.NewFromFloat(0.055),
		SoliExemption:         decimal.NewMoneyFromInt(17543),
		SoliGlideRate:         sd.NewFromFloat(0.119),
		EmployeeLumpSum:       decimal.NewMoneyFromInt(1230),
		SpecialExpenseLumpSum: decimal.NewMoneyFromInt(36),
	}
}

func year2024() TaxYearParameters {
	return TaxYearParameters{
		Year:                  2024,
		BasicAllowance:        decimal.NewMoneyFromInt(11604),
		Zone2Upper:            decimal.NewMoneyFromInt(17005),
		Zone3Upper:            decimal.NewMoneyFromInt(66760),
		Zone4Upper:            decimal.NewMoneyFromInt(277825),
		Zone2A:                sd.NewFromFloat(922.98),
		Zone2B:                sd.NewFromInt(1400),
		Zone3A:                sd.NewFromFloat(181.19),
		Zone3B:                sd.NewFromInt(2397),
		Zone3C:                sd.NewFromFloat(1025.38),
		Zone4Rate:             sd.NewFromFloat(0.42),
		Zone4Sub:              sd.NewFromFloat(10602.13),
		Zone5Rate:             sd.NewFromFloat(0.45),
		Zone5Sub:              sd.NewFromFloat(18936.88),
		SoliRate:              sd.NewFromFloat(0.055),
		SoliExemption:         decimal.NewMoneyFromInt(18130),
		SoliGlideRate:         sd.NewFromFloat(0.119),
		EmployeeLumpSum:       decimal.NewMoneyFromInt(1230),
		SpecialExpenseLumpSum: decimal.NewMoneyFromInt(36),
	}
}

func year2025() TaxYearParameters {
	return TaxYearParameters{
		Year:                  2025,
		BasicAllowance:        decimal.NewMoneyFromInt(12096),
		Zone2Upper:            decimal.NewMoneyFromInt(17443),
		Zone3Upper:            decimal.NewMoneyFromInt(68480),
		Zone4Upper:            decimal.NewMoneyFromInt(277825),
		Zone2A:                sd.NewFromFloat(932.30),
		Zone2B:                sd.NewFromInt(1400),
		Zone3A:                sd.NewFromFloat(176.64),
		Zone3B:                sd.NewFromInt(2397),
		Zone3C:                sd.NewFromFloat(1015.13),
		Zone4Rate:             sd.NewFromFloat(0.42),
		Zone4Sub:              sd.NewFromFloat(10911.92),
		Zone5Rate:             sd.NewFromFloat(0.45),
		Zone5Sub:              sd.NewFromFloat(19246.67),
		SoliRate:              sd.NewFromFloat(0.055),
		SoliExemption:         decimal.NewMoneyFromInt(19950),
		SoliGlideRate:         sd.NewFromFloat(0.119),
		EmployeeLumpSum:       decimal.NewMoneyFromInt(1230),
		SpecialExpenseLumpSum: decimal.NewMoneyFromInt(36),
	}
}

// ParameterTable looks up TaxYearParameters by year. Unknown years are a
// configuration error, never extrapolated.
type ParameterTable struct {
	years map[int]TaxYearParameters
}

// NewParameterTable creates a table preloaded with the built-in years.
func NewParameterTable() *ParameterTable {
	t := &ParameterTable{years: make(map[int]TaxYearParameters)}
	for _, p := range []TaxYearParameters{year2023(), year2024(), year2025()} {
		t.years[p.Year] = p
	}
	return t
}

// Register adds or replaces the parameters of one year after validation.
func (t *ParameterTable) Register(p TaxYearParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	t.years[p.Year] = p
	return nil
}

// Lookup returns the parameters of the given year.
func (t *ParameterTable) Lookup(year int) (TaxYearParameters, error) {
	p, ok := t.years[year]
	if !ok {
		return TaxYearParameters{}, domain.ConfigurationError("no tax parameters registered for year %d", year)
	}
	return p, nil
}

// Years returns all registered years.
func (t *ParameterTable) Years() []int {
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	return years
}

// Validate checks the internal consistency of a parameter record.
func (p TaxYearParameters) Validate() error {
	if p.Year < 2000 {
		return domain.ConfigurationError("implausible tax year %d", p.Year)
	}
	if !p.BasicAllowance.IsPositive() {
		return domain.ConfigurationError("year %d: basic allowance must be positive", p.Year)
	}
	if !p.BasicAllowance.LessThan(p.Zone2Upper) || !p.Zone2Upper.LessThan(p.Zone3Upper) || !p.Zone3Upper.LessThan(p.Zone4Upper) {
		return domain.ConfigurationError("year %d: zone boundaries must be strictly ascending", p.Year)
	}
	if p.Zone4Rate.LessThanOrEqual(sd.Zero) || p.Zone5Rate.LessThan(p.Zone4Rate) {
		return domain.ConfigurationError("year %d: flat zone rates must be positive and non-decreasing", p.Year)
	}
	if p.SoliRate.IsNegative() || p.SoliGlideRate.LessThan(p.SoliRate) {
		return domain.ConfigurationError("year %d: surcharge glide rate must be at least the full rate", p.Year)
	}
	return nil
}
