package output

import (
	"encoding/json"

	"github.com/buchwerk/tax-engine/internal/domain"
)

// JSONFormatter serializes the annual package as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(pkg *domain.AnnualPackage) ([]byte, error) {
	return json.MarshalIndent(pkg, "", "  ")
}
