// Package cryptostock tracks positions in equities and crypto-currencies
// across named portfolios.
//
// The core functionalities include:
//   - Position Accounting: buys update a weighted-average cost basis, sells
//     realize a profit or loss against it. A position sold in full is removed
//     from its portfolio.
//   - Portfolios: a Portfolio holds equity and crypto positions, keyed by
//     symbol, and only changes through Buy, Add and Sell. A Book is the set of
//     portfolios of a store, indexed by unique name.
//   - Valuation: the ValuationEngine values every position with the current
//     prices of a PriceOracle and sums market value, unrealized and realized
//     profit and loss.
//   - Persistence: EncodeBook and DecodeBook read and write the portfolios.json
//     format; JSONFile is a PortfolioStore on top of them.
//
// All amounts are in USD. Market data comes from the market package and
// presentation lives in the renderer and cmd packages: this package never
// logs nor prints.
package cryptostock
