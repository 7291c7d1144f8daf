package cryptostock

import "errors"

var (
	ErrInvalidQuantity      = errors.New("quantity must be greater than 0")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrNoPosition           = errors.New("no position")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrEmptyName            = errors.New("portfolio name cannot be empty")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrAssetClassConflict   = errors.New("symbol already held in another asset class")
	ErrCancelled            = errors.New("operation cancelled")
	ErrPortfolioExists      = errors.New("portfolio already exists")
	ErrPortfolioNotFound    = errors.New("portfolio does not exist")

	// ErrLookup is the parent of all market data failures.
	ErrLookup = errors.New("lookup failed")
	// ErrUnknownSymbol reports a ticker or crypto symbol that does not exist.
	ErrUnknownSymbol = lookupError("symbol does not exist")
	// ErrPriceUnavailable reports a price that could not be retrieved.
	ErrPriceUnavailable = lookupError("price unavailable")
)

// lookupError is an error that also matches ErrLookup.
type lookupError string

func (e lookupError) Error() string        { return string(e) }
func (e lookupError) Is(target error) bool { return target == ErrLookup }
