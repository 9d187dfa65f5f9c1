// Package inventory tracks the flowers available for bouquets, one pool per size.
package inventory

import (
	"errors"
	"fmt"
	"slices"

	"github.com/eugenenazirov/bouquets/internal/flower"
)

var (
	// ErrUnderflow indicates an attempt to take more flowers than are in stock.
	ErrUnderflow = errors.New("inventory underflow")
	// ErrUnknownSize indicates a size with no backing pool.
	ErrUnknownSize = errors.New("inventory has no pool for size")
)

// pool counts flowers of one size. order holds the species currently in
// stock, in the order they were first added.
type pool struct {
	order  []flower.Species
	counts map[flower.Species]int
}

func newPool() *pool {
	return &pool{counts: make(map[flower.Species]int)}
}

// Inventory is a single-writer store of flower counts. It is not safe for
// concurrent use; allocations must run one at a time.
type Inventory struct {
	small *pool
	large *pool
}

// New returns an empty inventory.
func New() *Inventory {
	return &Inventory{
		small: newPool(),
		large: newPool(),
	}
}

// Load builds an inventory from raw flower tokens such as "rL".
func Load(tokens []string) (*Inventory, error) {
	inv := New()
	for _, token := range tokens {
		stem, err := flower.ParseStem(token)
		if err != nil {
			return nil, err
		}
		inv.Append(stem.Size, stem.Species)
	}
	return inv, nil
}

func (inv *Inventory) pool(size flower.Size) *pool {
	switch size {
	case flower.Small:
		return inv.small
	case flower.Large:
		return inv.large
	default:
		return nil
	}
}

// Append adds one flower to stock. Unknown sizes are ignored.
func (inv *Inventory) Append(size flower.Size, species flower.Species) {
	p := inv.pool(size)
	if p == nil {
		return
	}
	if p.counts[species] == 0 {
		p.order = append(p.order, species)
	}
	p.counts[species]++
}

// Count returns how many flowers of the species and size are in stock.
func (inv *Inventory) Count(size flower.Size, species flower.Species) int {
	p := inv.pool(size)
	if p == nil {
		return 0
	}
	return p.counts[species]
}

// IsAvailable reports whether amount flowers can be taken.
func (inv *Inventory) IsAvailable(size flower.Size, species flower.Species, amount int) bool {
	return amount <= inv.Count(size, species)
}

// Reduce takes amount flowers out of stock. A species whose count drops to
// zero is removed from the pool.
func (inv *Inventory) Reduce(size flower.Size, species flower.Species, amount int) error {
	p := inv.pool(size)
	if p == nil {
		return fmt.Errorf("%w %s", ErrUnknownSize, size)
	}
	if amount < 0 {
		return fmt.Errorf("reduce %s%s by negative amount %d", species, size, amount)
	}
	have := p.counts[species]
	if amount > have {
		return fmt.Errorf("%w: %s%s has %d, asked for %d", ErrUnderflow, species, size, have, amount)
	}
	if amount == 0 {
		return nil
	}
	if have == amount {
		delete(p.counts, species)
		p.order = slices.DeleteFunc(p.order, func(s flower.Species) bool { return s == species })
		return nil
	}
	p.counts[species] = have - amount
	return nil
}

// Species returns the species in stock for a size, in first-added order.
// The returned slice is a copy.
func (inv *Inventory) Species(size flower.Size) []flower.Species {
	p := inv.pool(size)
	if p == nil {
		return nil
	}
	return slices.Clone(p.order)
}

// Total returns the number of flowers of a size in stock.
func (inv *Inventory) Total(size flower.Size) int {
	p := inv.pool(size)
	if p == nil {
		return 0
	}
	total := 0
	for _, n := range p.counts {
		total += n
	}
	return total
}

// Entry is the stock level of one species.
type Entry struct {
	Species flower.Species
	Count   int
}

// Snapshot returns the stock of a size in first-added order.
func (inv *Inventory) Snapshot(size flower.Size) []Entry {
	p := inv.pool(size)
	if p == nil {
		return nil
	}
	entries := make([]Entry, 0, len(p.order))
	for _, species := range p.order {
		entries = append(entries, Entry{Species: species, Count: p.counts[species]})
	}
	return entries
}
