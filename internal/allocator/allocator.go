package allocator

import (
	"fmt"

	"github.com/eugenenazirov/bouquets/internal/design"
)

type greedyAllocator struct {
	strategy Strategy
}

// New creates an Allocator that meets exact demands in design order and tops
// up the remaining slots from stock in first-added order.
func New(strategy Strategy) Allocator {
	if strategy == "" {
		strategy = StrategyAtomic
	}
	return &greedyAllocator{strategy: strategy}
}

func (a *greedyAllocator) Create(d design.Design, stock Stock) (Bouquet, error) {
	if a.strategy == StrategyAtomic {
		if err := check(d, stock); err != nil {
			return Bouquet{}, err
		}
	}
	return build(d, stock)
}

// check verifies the design can be completed without touching stock.
func check(d design.Design, stock Stock) error {
	if err := d.Validate(); err != nil {
		return err
	}
	for _, req := range d.Required {
		if !stock.IsAvailable(d.Size, req.Species, req.Count) {
			return shortage(d, req, stock)
		}
	}
	remaining := d.Total - d.RequiredTotal()
	spare := stock.Total(d.Size) - d.RequiredTotal()
	if spare < remaining {
		return &FillError{Design: d.Name, Size: d.Size, Remaining: remaining - spare}
	}
	return nil
}

func build(d design.Design, stock Stock) (Bouquet, error) {
	b := Bouquet{Name: d.Name, Size: d.Size}
	used := 0
	for _, req := range d.Required {
		if !stock.IsAvailable(d.Size, req.Species, req.Count) {
			return Bouquet{}, shortage(d, req, stock)
		}
		if err := stock.Reduce(d.Size, req.Species, req.Count); err != nil {
			return Bouquet{}, fmt.Errorf("design %c: %w", d.Name, err)
		}
		b.add(req.Species, req.Count)
		used += req.Count
	}

	remaining := d.Total - used
	switch {
	case remaining < 0:
		return Bouquet{}, fmt.Errorf("%w: design %c requires %d, total %d", ErrInconsistentDesign, d.Name, used, d.Total)
	case remaining == 0:
		return b, nil
	}
	return fill(b, d, stock, remaining)
}

// fill hands out the free slots greedily, draining each species in stock order.
func fill(b Bouquet, d design.Design, stock Stock, remaining int) (Bouquet, error) {
	for _, species := range stock.Species(d.Size) {
		take := min(stock.Count(d.Size, species), remaining)
		if err := stock.Reduce(d.Size, species, take); err != nil {
			return Bouquet{}, fmt.Errorf("design %c: %w", d.Name, err)
		}
		b.add(species, take)
		remaining -= take
		if remaining == 0 {
			return b, nil
		}
	}
	return Bouquet{}, &FillError{Design: d.Name, Size: d.Size, Remaining: remaining}
}

func shortage(d design.Design, req design.Requirement, stock Stock) error {
	return &ShortageError{
		Design:    d.Name,
		Size:      d.Size,
		Species:   req.Species,
		Available: stock.Count(d.Size, req.Species),
		Required:  req.Count,
	}
}
