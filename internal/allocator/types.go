package allocator

import (
	"strconv"
	"strings"

	"github.com/eugenenazirov/bouquets/internal/design"
	"github.com/eugenenazirov/bouquets/internal/flower"
)

// Stock is the inventory surface the allocator draws from.
type Stock interface {
	Count(size flower.Size, species flower.Species) int
	IsAvailable(size flower.Size, species flower.Species, amount int) bool
	Reduce(size flower.Size, species flower.Species, amount int) error
	Species(size flower.Size) []flower.Species
	Total(size flower.Size) int
}

// Allocator describes the behaviour required from a bouquet allocator.
type Allocator interface {
	Create(d design.Design, stock Stock) (Bouquet, error)
}

// Strategy selects what happens to stock when an allocation fails.
type Strategy string

const (
	// StrategyAtomic checks the whole design first and leaves stock untouched on failure.
	StrategyAtomic Strategy = "atomic"
	// StrategyFailFast reduces stock as it goes and keeps those reductions on failure.
	StrategyFailFast Strategy = "fail-fast"
)

// ParseStrategy converts a configuration value into a Strategy.
func ParseStrategy(raw string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(raw))); s {
	case StrategyAtomic, StrategyFailFast:
		return s, nil
	default:
		return "", ErrUnknownStrategy
	}
}

// Item is the number of flowers of one species in a bouquet.
type Item struct {
	Species flower.Species
	Count   int
}

// Bouquet is a completed allocation. Items are ordered by first use: exact
// demands in design order, then filler in stock order.
type Bouquet struct {
	Name  rune
	Size  flower.Size
	Items []Item
}

func (b *Bouquet) add(species flower.Species, count int) {
	for i := range b.Items {
		if b.Items[i].Species == species {
			b.Items[i].Count += count
			return
		}
	}
	b.Items = append(b.Items, Item{Species: species, Count: count})
}

// Total returns the number of flowers in the bouquet.
func (b Bouquet) Total() int {
	total := 0
	for _, item := range b.Items {
		total += item.Count
	}
	return total
}

// String renders the bouquet as <name><size>(<count><species>)*, e.g. "AL8d10r12t".
func (b Bouquet) String() string {
	var sb strings.Builder
	sb.WriteRune(b.Name)
	sb.WriteString(b.Size.String())
	for _, item := range b.Items {
		sb.WriteString(strconv.Itoa(item.Count))
		sb.WriteString(item.Species.String())
	}
	return sb.String()
}
