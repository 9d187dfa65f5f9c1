package session

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/bouquets/internal/allocator"
	"github.com/eugenenazirov/bouquets/internal/design"
	"github.com/eugenenazirov/bouquets/internal/flower"
	"github.com/eugenenazirov/bouquets/internal/inventory"
)

// Result is the outcome of one design line. Exactly one of Bouquet and Err is set.
type Result struct {
	Input   string
	Bouquet *allocator.Bouquet
	Err     error
}

// String renders the bouquet code or the failure message.
func (r Result) String() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Bouquet.String()
}

// Report collects the results of a run and the stock left over.
type Report struct {
	Results  []Result
	Rejected []error
	Stock    *inventory.Inventory
}

// Runner allocates orders against a fresh inventory per run.
type Runner struct {
	allocator allocator.Allocator
	logger    *zap.Logger
}

// NewRunner constructs a Runner with the provided dependencies.
func NewRunner(alloc allocator.Allocator, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{allocator: alloc, logger: logger}
}

// Run parses every design and flower, then allocates the designs in order
// against one shared inventory. Malformed lines and stock shortages are
// reported per line. An inconsistent design or an inventory underflow stops
// the run; the report then holds the results produced so far.
func (r *Runner) Run(order Order) (Report, error) {
	designs := make([]design.Design, len(order.Designs))
	parseErrs := make([]error, len(order.Designs))
	for i, raw := range order.Designs {
		designs[i], parseErrs[i] = design.Parse(raw)
	}

	report := Report{Stock: inventory.New()}
	for _, token := range order.Flowers {
		stem, err := flower.ParseStem(token)
		if err != nil {
			r.logger.Warn("flower rejected", zap.String("flower", token), zap.Error(err))
			report.Rejected = append(report.Rejected, err)
			continue
		}
		report.Stock.Append(stem.Size, stem.Species)
	}

	for i, raw := range order.Designs {
		result := Result{Input: raw}
		if parseErrs[i] != nil {
			result.Err = parseErrs[i]
			r.logger.Warn("design rejected", zap.String("design", raw), zap.Error(result.Err))
			report.Results = append(report.Results, result)
			continue
		}

		bouquet, err := r.allocator.Create(designs[i], report.Stock)
		switch {
		case err == nil:
			result.Bouquet = &bouquet
			r.logger.Debug("bouquet created", zap.String("design", raw), zap.Stringer("bouquet", bouquet))
		case errors.Is(err, allocator.ErrInsufficientStock):
			result.Err = err
			r.logger.Warn("bouquet not created", zap.String("design", raw), zap.Error(err))
		default:
			r.logger.Error("allocation aborted", zap.String("design", raw), zap.Error(err))
			return report, fmt.Errorf("allocate %s: %w", raw, err)
		}
		report.Results = append(report.Results, result)
	}

	return report, nil
}

// Render writes one line per result in input order, followed by one line
// per rejected flower token.
func Render(w io.Writer, report Report) error {
	for _, result := range report.Results {
		if _, err := fmt.Fprintln(w, result.String()); err != nil {
			return err
		}
	}
	for _, err := range report.Rejected {
		if _, werr := fmt.Fprintf(w, "flower rejected: %v\n", err); werr != nil {
			return werr
		}
	}
	return nil
}

// RenderStock writes the remaining stock, one line per size, e.g. "L: 3r 2t".
func RenderStock(w io.Writer, stock *inventory.Inventory) error {
	for _, size := range flower.Sizes() {
		var line strings.Builder
		line.WriteString(size.String() + ":")
		for _, e := range stock.Snapshot(size) {
			fmt.Fprintf(&line, " %d%s", e.Count, e.Species)
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}
