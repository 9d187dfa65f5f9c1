package allocator

import (
	"errors"
	"fmt"

	"github.com/eugenenazirov/bouquets/internal/design"
	"github.com/eugenenazirov/bouquets/internal/flower"
)

var (
	// ErrInsufficientStock is matched by every stock shortage, exact or filler.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInconsistentDesign is returned when a design's exact demands exceed its total.
	ErrInconsistentDesign = design.ErrInconsistent
	// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
	ErrUnknownStrategy = errors.New("unknown allocation strategy")
)

// ShortageError reports an exact species demand the stock cannot cover.
type ShortageError struct {
	Design    rune
	Size      flower.Size
	Species   flower.Species
	Available int
	Required  int
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("design %c: not enough %s flowers of size %s: available %d, required %d",
		e.Design, e.Species, e.Size, e.Available, e.Required)
}

func (e *ShortageError) Is(target error) bool { return target == ErrInsufficientStock }

// FillError reports free slots left over once the pool of a size ran dry.
type FillError struct {
	Design    rune
	Size      flower.Size
	Remaining int
}

func (e *FillError) Error() string {
	return fmt.Sprintf("design %c: not enough flowers of size %s to fill %d remaining slots",
		e.Design, e.Size, e.Remaining)
}

func (e *FillError) Is(target error) bool { return target == ErrInsufficientStock }
