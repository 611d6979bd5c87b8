package entity

// CurrencyPair maps a canonical pair onto the symbol spelling of every
// exchange that lists it.
type CurrencyPair struct {
	Name          string            `json:"name"`
	BaseCurrency  string            `json:"base_currency"`
	QuoteCurrency string            `json:"quote_currency"`
	Symbols       map[string]string `json:"symbols"`
}

func (p CurrencyPair) Symbol(exchange string) (string, bool) {
	s, ok := p.Symbols[exchange]
	return s, ok && s != ""
}
