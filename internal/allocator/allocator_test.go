package allocator

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eugenenazirov/bouquets/internal/design"
	"github.com/eugenenazirov/bouquets/internal/flower"
	"github.com/eugenenazirov/bouquets/internal/inventory"
)

func stems(groups ...string) []string {
	var tokens []string
	for _, g := range groups {
		count, token, _ := strings.Cut(g, "x")
		n := 0
		for _, r := range count {
			n = n*10 + int(r-'0')
		}
		for i := 0; i < n; i++ {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func mustDesign(t *testing.T, raw string) design.Design {
	t.Helper()
	d, err := design.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", raw, err)
	}
	return d
}

func mustInventory(t *testing.T, tokens []string) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.Load(tokens)
	if err != nil {
		t.Fatalf("Load unexpected error: %v", err)
	}
	return inv
}

func TestCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		design string
		stock  []string
		want   string
	}{
		{
			name:   "FillerFromOnlyRemainingSpecies",
			design: "AL8d10r5t30",
			stock:  stems("8xdL", "10xrL", "12xtL"),
			want:   "AL8d10r12t",
		},
		{
			name:   "ExactDemandOnly",
			design: "BS2a1b3",
			stock:  stems("2xaS", "1xbS", "4xcS"),
			want:   "BS2a1b",
		},
		{
			name:   "FillerOnlyDesign",
			design: "CL5",
			stock:  stems("2xzL", "9xyL"),
			want:   "CL2z3y",
		},
		{
			name:   "FillerAppendsNewSpeciesAfterRequired",
			design: "DL1a4",
			stock:  stems("1xbL", "1xaL", "5xcL"),
			want:   "DL1a1b2c",
		},
		{
			name:   "SizesAreIndependent",
			design: "ES1a2",
			stock:  stems("5xbL", "1xaS", "1xcS"),
			want:   "ES1a1c",
		},
		{
			name:   "ZeroRequirementIsRendered",
			design: "FL0x1y1",
			stock:  stems("1xyL"),
			want:   "FL0x1y",
		},
	}

	for _, strategy := range []Strategy{StrategyAtomic, StrategyFailFast} {
		for _, tc := range tests {
			t.Run(string(strategy)+"/"+tc.name, func(t *testing.T) {
				d := mustDesign(t, tc.design)
				got, err := New(strategy).Create(d, mustInventory(t, tc.stock))
				if err != nil {
					t.Fatalf("Create unexpected error: %v", err)
				}
				if got.String() != tc.want {
					t.Fatalf("Create = %q, want %q", got.String(), tc.want)
				}
				if got.Total() != d.Total {
					t.Fatalf("bouquet holds %d flowers, design total %d", got.Total(), d.Total)
				}
			})
		}
	}
}

func TestCreateReportsShortage(t *testing.T) {
	t.Parallel()

	for _, strategy := range []Strategy{StrategyAtomic, StrategyFailFast} {
		t.Run(string(strategy), func(t *testing.T) {
			inv := mustInventory(t, stems("5xdL"))
			_, err := New(strategy).Create(mustDesign(t, "AL8d10r5t30"), inv)

			var shortage *ShortageError
			if !errors.As(err, &shortage) {
				t.Fatalf("expected ShortageError, got %v", err)
			}
			want := &ShortageError{Design: 'A', Size: flower.Large, Species: 'd', Available: 5, Required: 8}
			if diff := cmp.Diff(want, shortage); diff != "" {
				t.Fatalf("shortage mismatch (-want +got):\n%s", diff)
			}
			if !errors.Is(err, ErrInsufficientStock) {
				t.Fatalf("expected ErrInsufficientStock, got %v", err)
			}
			if got := err.Error(); got != "design A: not enough d flowers of size L: available 5, required 8" {
				t.Fatalf("unexpected message %q", got)
			}
		})
	}
}

func TestCreateReportsUnfilledSlots(t *testing.T) {
	t.Parallel()

	for _, strategy := range []Strategy{StrategyAtomic, StrategyFailFast} {
		t.Run(string(strategy), func(t *testing.T) {
			inv := mustInventory(t, stems("8xdL", "10xrL", "5xtL", "9xaS"))
			_, err := New(strategy).Create(mustDesign(t, "AL8d10r5t30"), inv)

			var fillErr *FillError
			if !errors.As(err, &fillErr) {
				t.Fatalf("expected FillError, got %v", err)
			}
			if fillErr.Remaining != 7 || fillErr.Size != flower.Large {
				t.Fatalf("unexpected fill error %+v", fillErr)
			}
			if !errors.Is(err, ErrInsufficientStock) {
				t.Fatalf("expected ErrInsufficientStock, got %v", err)
			}
		})
	}
}

func TestCreatePartialFillReportsUnmetRemainder(t *testing.T) {
	t.Parallel()

	for _, strategy := range []Strategy{StrategyAtomic, StrategyFailFast} {
		t.Run(string(strategy), func(t *testing.T) {
			inv := mustInventory(t, stems("1xaL", "2xbL"))
			_, err := New(strategy).Create(mustDesign(t, "AL1a6"), inv)

			var fillErr *FillError
			if !errors.As(err, &fillErr) {
				t.Fatalf("expected FillError, got %v", err)
			}
			if fillErr.Remaining != 3 {
				t.Fatalf("expected 3 unmet slots, got %d", fillErr.Remaining)
			}
		})
	}
}

func TestAtomicFailureLeavesStockUntouched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		design string
		stock  []string
	}{
		{name: "Shortage", design: "AL2a3b5", stock: stems("2xaL", "1xbL", "4xcL")},
		{name: "Fill", design: "AL2a9", stock: stems("2xaL", "1xbL", "4xcL")},
		{name: "Inconsistent", design: "AL2a1b2", stock: stems("2xaL", "1xbL", "4xcL")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := mustInventory(t, tc.stock)
			before := inv.Snapshot(flower.Large)

			if _, err := New(StrategyAtomic).Create(mustDesign(t, tc.design), inv); err == nil {
				t.Fatalf("expected allocation to fail")
			}
			if diff := cmp.Diff(before, inv.Snapshot(flower.Large)); diff != "" {
				t.Fatalf("stock changed on failure (-before +after):\n%s", diff)
			}
		})
	}
}

func TestFailFastKeepsEarlierReductions(t *testing.T) {
	t.Parallel()

	inv := mustInventory(t, stems("2xaL", "1xbL", "4xcL"))
	if _, err := New(StrategyFailFast).Create(mustDesign(t, "AL2a3b5"), inv); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	want := []inventory.Entry{{Species: 'b', Count: 1}, {Species: 'c', Count: 4}}
	if diff := cmp.Diff(want, inv.Snapshot(flower.Large)); diff != "" {
		t.Fatalf("unexpected stock after failure (-want +got):\n%s", diff)
	}

	inv = mustInventory(t, stems("2xaL", "1xbL"))
	if _, err := New(StrategyFailFast).Create(mustDesign(t, "AL2a9"), inv); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := inv.Total(flower.Large); got != 0 {
		t.Fatalf("expected partial fill to drain stock, %d left", got)
	}
}

func TestCreateInconsistentDesign(t *testing.T) {
	t.Parallel()

	for _, strategy := range []Strategy{StrategyAtomic, StrategyFailFast} {
		t.Run(string(strategy), func(t *testing.T) {
			inv := mustInventory(t, stems("3xaL", "3xbL"))
			_, err := New(strategy).Create(mustDesign(t, "AL3a3b5"), inv)
			if !errors.Is(err, ErrInconsistentDesign) {
				t.Fatalf("expected ErrInconsistentDesign, got %v", err)
			}
			if errors.Is(err, ErrInsufficientStock) {
				t.Fatalf("inconsistent design must not look like a shortage")
			}
		})
	}
}

func TestSequentialDesignsShareStock(t *testing.T) {
	t.Parallel()

	inv := mustInventory(t, stems("3xaS", "2xbS"))
	alloc := New(StrategyAtomic)

	first, err := alloc.Create(mustDesign(t, "AS2a3"), inv)
	if err != nil {
		t.Fatalf("first design: %v", err)
	}
	if first.String() != "AS3a" {
		t.Fatalf("first bouquet = %q, want AS3a", first.String())
	}

	second, err := alloc.Create(mustDesign(t, "BS2"), inv)
	if err != nil {
		t.Fatalf("second design: %v", err)
	}
	if second.String() != "BS2b" {
		t.Fatalf("second bouquet = %q, want BS2b", second.String())
	}

	if _, err := alloc.Create(mustDesign(t, "CS1"), inv); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected depleted stock, got %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Strategy{
		"atomic":     StrategyAtomic,
		" Fail-Fast": StrategyFailFast,
	} {
		got, err := ParseStrategy(raw)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseStrategy("optimal"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func BenchmarkCreate(b *testing.B) {
	tokens := stems("400xaL", "400xbL", "400xcL", "400xdL")
	d, err := design.Parse("AL10a10b200")
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	alloc := New(StrategyAtomic)
	for i := 0; i < b.N; i++ {
		inv, err := inventory.Load(tokens)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
		if _, err := alloc.Create(d, inv); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
