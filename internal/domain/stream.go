package domain

// Stream identifies one of the three legally distinct income streams of a
// sole proprietor: employment, freelance work (Freiberuf) and trade
// (Gewerbe). Only the latter two are business streams that issue invoices.
type Stream string

const (
	StreamEmployment Stream = "employment"
	StreamFreiberuf  Stream = "freiberuf"
	StreamGewerbe    Stream = "gewerbe"
)

var invoicePrefixes = map[Stream]string{
	StreamFreiberuf: "FR",
	StreamGewerbe:   "GW",
}

// ParseStream converts a string into a Stream.
func ParseStream(s string) (Stream, error) {
	switch Stream(s) {
	case StreamEmployment, StreamFreiberuf, StreamGewerbe:
		return Stream(s), nil
	}
	return "", ConfigurationError("unknown income stream %q", s)
}

// IsBusiness reports whether the stream is a business stream.
func (s Stream) IsBusiness() bool {
	return s == StreamFreiberuf || s == StreamGewerbe
}

// InvoicePrefix returns the two-letter invoice number prefix of a business
// stream. Employment income is never invoiced; asking for its prefix is an
// invariant violation, not a configuration mistake.
func (s Stream) InvoicePrefix() (string, error) {
	if p, ok := invoicePrefixes[s]; ok {
		return p, nil
	}
	return "", InvariantError("stream %q cannot issue invoices", s)
}
