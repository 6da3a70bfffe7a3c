package config

import (
	"fmt"
	"os"
	"time"

	sd "github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/buchwerk/tax-engine/internal/calculation"
	"github.com/buchwerk/tax-engine/internal/domain"
	"github.com/buchwerk/tax-engine/pkg/decimal"
)

const dateLayout = "2006-01-02"

// InputParser loads and validates the YAML documents the CLI consumes:
// annual input aggregates and tax-year parameter overrides. Parsing either
// returns a fully validated value or an error; nothing partially valid
// escapes this package.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// ratioDocument is the YAML shape of a three-way allocation ratio.
type ratioDocument struct {
	StreamA  float64 `yaml:"stream_a"`
	StreamB  float64 `yaml:"stream_b"`
	Personal float64 `yaml:"personal"`
}

func (r *ratioDocument) toDomain() (domain.AllocationRatio, error) {
	return domain.NewAllocationRatio(
		sd.NewFromFloat(r.StreamA),
		sd.NewFromFloat(r.StreamB),
		sd.NewFromFloat(r.Personal),
	)
}

type assetDocument struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Acquired         string         `yaml:"acquired"`
	GrossCostCents   int64          `yaml:"gross_cost_cents"`
	UsefulLifeMonths int            `yaml:"useful_life_months"`
	Disposed         string         `yaml:"disposed"`
	Ratio            *ratioDocument `yaml:"ratio"`
}

type streamAggregateDocument struct {
	RevenueCents int64 `yaml:"revenue_cents"`
	ExpenseCents int64 `yaml:"expense_cents"`
}

type tradeDocument struct {
	AllowanceCents      int64   `yaml:"allowance_cents"`
	AssessmentRate      float64 `yaml:"assessment_rate"`
	MunicipalMultiplier int     `yaml:"municipal_multiplier"`
}

type invoiceDocument struct {
	Stream     string  `yaml:"stream"`
	Issued     string  `yaml:"issued"`
	GrossCents int64   `yaml:"gross_cents"`
	VatRate    float64 `yaml:"vat_rate"`
	Treatment  string  `yaml:"treatment"`
}

type expenseDocument struct {
	Stream     string         `yaml:"stream"`
	Paid       string         `yaml:"paid"`
	GrossCents int64          `yaml:"gross_cents"`
	VatRate    float64        `yaml:"vat_rate"`
	Ratio      *ratioDocument `yaml:"ratio"`
}

type annualDocument struct {
	Year                  int                     `yaml:"year"`
	Kleinunternehmer      bool                    `yaml:"kleinunternehmer"`
	EmploymentIncomeCents int64                   `yaml:"employment_income_cents"`
	Freiberuf             streamAggregateDocument `yaml:"freiberuf"`
	Gewerbe               streamAggregateDocument `yaml:"gewerbe"`
	Trade                 tradeDocument           `yaml:"trade"`
	Assets                []assetDocument         `yaml:"assets"`
	Invoices              []invoiceDocument       `yaml:"invoices"`
	Expenses              []expenseDocument       `yaml:"expenses"`
}

// LoadAnnualInput loads the aggregates of one assessment year from a YAML
// file. All monetary fields are minor currency units (cents).
func (ip *InputParser) LoadAnnualInput(filename string) (calculation.AnnualInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return calculation.AnnualInput{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var doc annualDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return calculation.AnnualInput{}, domain.ConfigurationError("failed to parse YAML: %v", err)
	}
	return ip.buildAnnualInput(&doc)
}

func (ip *InputParser) buildAnnualInput(doc *annualDocument) (calculation.AnnualInput, error) {
	if doc.Year < 2000 {
		return calculation.AnnualInput{}, domain.ConfigurationError("implausible assessment year %d", doc.Year)
	}

	in := calculation.AnnualInput{
		Year:             doc.Year,
		Kleinunternehmer: doc.Kleinunternehmer,
		EmploymentIncome: decimal.NewMoneyFromCents(doc.EmploymentIncomeCents),
		Freiberuf: calculation.StreamAggregate{
			Revenue:  decimal.NewMoneyFromCents(doc.Freiberuf.RevenueCents),
			Expenses: decimal.NewMoneyFromCents(doc.Freiberuf.ExpenseCents),
		},
		Gewerbe: calculation.StreamAggregate{
			Revenue:  decimal.NewMoneyFromCents(doc.Gewerbe.RevenueCents),
			Expenses: decimal.NewMoneyFromCents(doc.Gewerbe.ExpenseCents),
		},
		Trade: calculation.TradeParameters{
			Allowance:           decimal.NewMoneyFromCents(doc.Trade.AllowanceCents),
			AssessmentRate:      sd.NewFromFloat(doc.Trade.AssessmentRate),
			MunicipalMultiplier: doc.Trade.MunicipalMultiplier,
		},
	}

	for i, ad := range doc.Assets {
		asset, err := ip.buildAsset(i, &ad)
		if err != nil {
			return calculation.AnnualInput{}, err
		}
		var ratio *domain.AllocationRatio
		if ad.Ratio != nil {
			r, err := ad.Ratio.toDomain()
			if err != nil {
				return calculation.AnnualInput{}, fmt.Errorf("asset %d: %w", i, err)
			}
			ratio = &r
		}
		in.Assets = append(in.Assets, calculation.AllocatedAsset{Asset: asset, Ratio: ratio})
	}

	for i, id := range doc.Invoices {
		inv, err := ip.buildInvoice(i, &id)
		if err != nil {
			return calculation.AnnualInput{}, err
		}
		in.Invoices = append(in.Invoices, inv)
	}

	for i, ed := range doc.Expenses {
		exp, err := ip.buildExpense(i, &ed)
		if err != nil {
			return calculation.AnnualInput{}, err
		}
		in.Expenses = append(in.Expenses, exp)
	}

	return in, nil
}

func (ip *InputParser) buildAsset(i int, ad *assetDocument) (*domain.DepreciableAsset, error) {
	acquired, err := parseDate(ad.Acquired)
	if err != nil {
		return nil, domain.ConfigurationError("asset %d: invalid acquisition date %q", i, ad.Acquired)
	}
	asset, err := domain.NewDepreciableAsset(ad.ID, ad.Name, acquired,
		decimal.NewMoneyFromCents(ad.GrossCostCents), ad.UsefulLifeMonths)
	if err != nil {
		return nil, err
	}
	if ad.Disposed != "" {
		disposed, err := parseDate(ad.Disposed)
		if err != nil {
			return nil, domain.ConfigurationError("asset %d: invalid disposal date %q", i, ad.Disposed)
		}
		if err := asset.Dispose(disposed); err != nil {
			return nil, err
		}
	}
	return asset, nil
}

func (ip *InputParser) buildInvoice(i int, id *invoiceDocument) (domain.InvoiceFact, error) {
	stream, err := domain.ParseStream(id.Stream)
	if err != nil {
		return domain.InvoiceFact{}, fmt.Errorf("invoice %d: %w", i, err)
	}
	if !stream.IsBusiness() {
		return domain.InvoiceFact{}, domain.InvariantError("invoice %d: stream %q cannot issue invoices", i, stream)
	}
	issued, err := parseDate(id.Issued)
	if err != nil {
		return domain.InvoiceFact{}, domain.ConfigurationError("invoice %d: invalid issue date %q", i, id.Issued)
	}
	treatment := domain.TreatmentRegular
	if id.Treatment != "" {
		treatment, err = domain.ParseVatTreatment(id.Treatment)
		if err != nil {
			return domain.InvoiceFact{}, fmt.Errorf("invoice %d: %w", i, err)
		}
	}
	return domain.InvoiceFact{
		Stream:    stream,
		IssuedAt:  issued,
		Gross:     decimal.NewMoneyFromCents(id.GrossCents),
		VatRate:   sd.NewFromFloat(id.VatRate),
		Treatment: treatment,
	}, nil
}

func (ip *InputParser) buildExpense(i int, ed *expenseDocument) (domain.ExpenseFact, error) {
	stream, err := domain.ParseStream(ed.Stream)
	if err != nil {
		return domain.ExpenseFact{}, fmt.Errorf("expense %d: %w", i, err)
	}
	paid, err := parseDate(ed.Paid)
	if err != nil {
		return domain.ExpenseFact{}, domain.ConfigurationError("expense %d: invalid payment date %q", i, ed.Paid)
	}
	exp := domain.ExpenseFact{
		Stream:  stream,
		PaidAt:  paid,
		Gross:   decimal.NewMoneyFromCents(ed.GrossCents),
		VatRate: sd.NewFromFloat(ed.VatRate),
	}
	if ed.Ratio != nil {
		r, err := ed.Ratio.toDomain()
		if err != nil {
			return domain.ExpenseFact{}, fmt.Errorf("expense %d: %w", i, err)
		}
		exp.Ratio = &r
	}
	return exp, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
