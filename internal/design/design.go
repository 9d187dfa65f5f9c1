// Package design decodes compact bouquet design codes such as "AL8d10r5t30"
// into structured demands.
package design

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/eugenenazirov/bouquets/internal/flower"
)

var (
	// ErrMalformed is returned when a design code cannot be decoded.
	ErrMalformed = errors.New("malformed design")
	// ErrInconsistent is returned when the required species add up to more
	// than the declared total.
	ErrInconsistent = errors.New("design requires more flowers than its total")
)

// Requirement is an exact demand for one species.
type Requirement struct {
	Species flower.Species
	Count   int
}

// Design is the decoded form of a design code. Required keeps the order in
// which species appear in the code.
type Design struct {
	Name     rune
	Size     flower.Size
	Required []Requirement
	Total    int
}

// Parse decodes <name><size>(<quantity><species>)*<total>.
func Parse(raw string) (Design, error) {
	code := []rune(raw)
	if len(code) < 3 {
		return Design{}, malformed(raw, "too short")
	}

	size, err := flower.ParseSize(code[1])
	if err != nil {
		return Design{}, malformed(raw, err.Error())
	}

	end := len(code)
	for end > 2 && isDigit(code[end-1]) {
		end--
	}
	if end == len(code) {
		return Design{}, malformed(raw, "missing total flower count")
	}
	total, err := strconv.Atoi(string(code[end:]))
	if err != nil {
		return Design{}, malformed(raw, "total flower count out of range")
	}

	required, err := parseRequirements(code[2:end])
	if err != nil {
		return Design{}, malformed(raw, err.Error())
	}

	return Design{
		Name:     code[0],
		Size:     size,
		Required: required,
		Total:    total,
	}, nil
}

func parseRequirements(segment []rune) ([]Requirement, error) {
	var (
		required []Requirement
		seen     = make(map[flower.Species]struct{})
		start    int
		sum      int
	)
	for i, r := range segment {
		if isDigit(r) {
			continue
		}
		if !flower.IsSpecies(r) {
			return nil, fmt.Errorf("unexpected character %q", r)
		}
		if i == start {
			return nil, fmt.Errorf("species %q has no quantity", r)
		}
		count, err := strconv.Atoi(string(segment[start:i]))
		if err != nil {
			return nil, fmt.Errorf("quantity of species %q out of range", r)
		}
		if count > math.MaxInt-sum {
			return nil, errors.New("species quantities add up past the integer range")
		}
		sum += count
		species := flower.Species(r)
		if _, dup := seen[species]; dup {
			return nil, fmt.Errorf("species %q listed twice", r)
		}
		seen[species] = struct{}{}
		required = append(required, Requirement{Species: species, Count: count})
		start = i + 1
	}
	if start != len(segment) {
		return nil, errors.New("quantity without species")
	}
	return required, nil
}

// RequiredTotal sums the exact species demands.
func (d Design) RequiredTotal() int {
	sum := 0
	for _, req := range d.Required {
		sum += req.Count
	}
	return sum
}

// Validate reports ErrInconsistent when the exact demands exceed Total.
// Parse does not call it; the allocator surfaces the condition instead.
func (d Design) Validate() error {
	if sum := d.RequiredTotal(); sum > d.Total {
		return fmt.Errorf("%w: design %c requires %d, total %d", ErrInconsistent, d.Name, sum, d.Total)
	}
	return nil
}

// Label is the <name><size> prefix shared by designs and bouquets.
func (d Design) Label() string {
	return string(d.Name) + d.Size.String()
}

// String encodes the design back into its code form.
func (d Design) String() string {
	var b strings.Builder
	b.WriteString(d.Label())
	for _, req := range d.Required {
		b.WriteString(strconv.Itoa(req.Count))
		b.WriteString(req.Species.String())
	}
	b.WriteString(strconv.Itoa(d.Total))
	return b.String()
}

func malformed(raw, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrMalformed, raw, reason)
}

func isDigit(r rune) bool {
	return r <= unicode.MaxASCII && unicode.IsDigit(r)
}
