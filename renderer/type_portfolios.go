package renderer

import "github.com/etnz/cryptostock"

// Portfolios is the list of portfolios of a book, in their order.
type Portfolios struct {
	Portfolios []PortfolioSummary `json:"portfolios"`
}

// PortfolioSummary describes a portfolio without pricing it.
type PortfolioSummary struct {
	Name   string `json:"name"`
	Stocks int    `json:"stocks"`
	Crypto int    `json:"crypto"`
	// RealizedPnL is the realized P&L of the open positions.
	RealizedPnL cryptostock.Money `json:"realizedPnL"`
}

// NewPortfolios creates the list of portfolios of b.
func NewPortfolios(b *cryptostock.Book) *Portfolios {
	res := &Portfolios{Portfolios: make([]PortfolioSummary, 0, b.Len())}
	for p := range b.Portfolios() {
		s := PortfolioSummary{Name: p.Name()}
		for _, h := range p.Snapshot() {
			switch h.Class {
			case cryptostock.Equity:
				s.Stocks++
			case cryptostock.Crypto:
				s.Crypto++
			}
			s.RealizedPnL = s.RealizedPnL.Add(h.Position.RealizedPnL())
		}
		res.Portfolios = append(res.Portfolios, s)
	}
	return res
}
