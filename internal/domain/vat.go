package domain

import (
	"time"

	sd "github.com/shopspring/decimal"

	"github.com/buchwerk/tax-engine/pkg/decimal"
)

// VatTreatment classifies how an invoice is treated for VAT purposes. Only
// regular invoices carry output VAT; the other treatments are zero-VAT by
// construction.
type VatTreatment string

const (
	TreatmentRegular       VatTreatment = "regular"
	TreatmentReverseCharge VatTreatment = "reverse_charge"
	TreatmentIntraEU       VatTreatment = "intra_eu"
	TreatmentThirdCountry  VatTreatment = "third_country"
	TreatmentSmallBusiness VatTreatment = "small_business"
)

// ParseVatTreatment converts a string into a VatTreatment.
func ParseVatTreatment(s string) (VatTreatment, error) {
	switch VatTreatment(s) {
	case TreatmentRegular, TreatmentReverseCharge, TreatmentIntraEU,
		TreatmentThirdCountry, TreatmentSmallBusiness:
		return VatTreatment(s), nil
	}
	return "", ConfigurationError("unknown VAT treatment %q", s)
}

// Period is an inclusive date range for a VAT filing period.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod validates and creates a filing period.
func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, ConfigurationError("period end %s precedes start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Year returns the calendar-year period.
func Year(year int) Period {
	return Period{
		Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, 12, 31, 23, 59, 59, 999999999, time.UTC),
	}
}

// InvoiceFact is the plain aggregated view of an issued invoice as the VAT
// engine consumes it; the core never sees invoice entities.
type InvoiceFact struct {
	Stream    Stream
	IssuedAt  time.Time
	Gross     decimal.Money
	VatRate   sd.Decimal // percent, e.g. 19
	Treatment VatTreatment
}

// ExpenseFact is the plain aggregated view of a paid expense. Ratio is nil
// for expenses without a three-way split; those count toward aggregate
// totals only.
type ExpenseFact struct {
	Stream  Stream
	PaidAt  time.Time
	Gross   decimal.Money
	VatRate sd.Decimal // percent
	Ratio   *AllocationRatio
}
