package cryptostock

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
)

// Book is the set of portfolios kept in a store, indexed by their unique name.
type Book struct {
	mu         sync.Mutex
	order      []*Portfolio
	portfolios map[string]*Portfolio
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{portfolios: make(map[string]*Portfolio)}
}

// Len returns the number of portfolios.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Names iterates over portfolio names in creation order.
func (b *Book) Names() iter.Seq[string] {
	b.mu.Lock()
	names := make([]string, 0, len(b.order))
	for _, p := range b.order {
		names = append(names, p.Name())
	}
	b.mu.Unlock()
	return slices.Values(names)
}

// Portfolios iterates over portfolios in creation order.
func (b *Book) Portfolios() iter.Seq[*Portfolio] {
	b.mu.Lock()
	order := slices.Clone(b.order)
	b.mu.Unlock()
	return slices.Values(order)
}

// Create adds a new empty portfolio.
func (b *Book) Create(name string) (*Portfolio, error) {
	p, err := NewPortfolio(name)
	if err != nil {
		return nil, err
	}
	if err := b.Insert(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Insert adds an existing portfolio to the book.
func (b *Book) Insert(p *Portfolio) error {
	name := p.Name()
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.portfolios[name]; exists {
		return fmt.Errorf("portfolio %q: %w", name, ErrPortfolioExists)
	}
	b.portfolios[name] = p
	b.order = append(b.order, p)
	return nil
}

// Get returns the portfolio called name. Surrounding spaces are ignored, as
// they are when the portfolio is created.
func (b *Book) Get(name string) (*Portfolio, error) {
	name = strings.TrimSpace(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	p, exists := b.portfolios[name]
	if !exists {
		return nil, fmt.Errorf("portfolio %q: %w", name, ErrPortfolioNotFound)
	}
	return p, nil
}

// Rename renames portfolio old into name, which must not be used by another
// portfolio. The portfolio keeps its place in the book.
func (b *Book) Rename(old, name string) error {
	old, name = strings.TrimSpace(old), strings.TrimSpace(name)
	b.mu.Lock()
	defer b.mu.Unlock()

	p, exists := b.portfolios[old]
	if !exists {
		return fmt.Errorf("portfolio %q: %w", old, ErrPortfolioNotFound)
	}
	if name == "" {
		return ErrEmptyName
	}
	if name == old {
		return nil
	}
	if _, exists := b.portfolios[name]; exists {
		return fmt.Errorf("a portfolio with the name %q: %w", name, ErrPortfolioExists)
	}
	if err := p.rename(name); err != nil {
		return err
	}
	delete(b.portfolios, old)
	b.portfolios[name] = p
	return nil
}

// Delete removes the portfolio called name and all its positions.
func (b *Book) Delete(name string) error {
	name = strings.TrimSpace(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	p, exists := b.portfolios[name]
	if !exists {
		return fmt.Errorf("portfolio %q: %w", name, ErrPortfolioNotFound)
	}
	delete(b.portfolios, name)
	b.order = slices.DeleteFunc(b.order, func(q *Portfolio) bool { return q == p })
	return nil
}
