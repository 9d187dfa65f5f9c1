package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyOrder is returned when an order contains no designs.
var ErrEmptyOrder = errors.New("order contains no designs")

// Order is the raw input of one run.
type Order struct {
	Designs []string `yaml:"designs" json:"designs"`
	Flowers []string `yaml:"flowers" json:"flowers"`
}

// ReadOrder reads design codes up to the first blank line, then flower
// tokens up to the next blank line or end of input.
func ReadOrder(r io.Reader) (Order, error) {
	var (
		order   Order
		section = &order.Designs
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if section == &order.Flowers {
				break
			}
			section = &order.Flowers
			continue
		}
		*section = append(*section, line)
	}
	if err := scanner.Err(); err != nil {
		return Order{}, fmt.Errorf("read order: %w", err)
	}
	if len(order.Designs) == 0 {
		return Order{}, ErrEmptyOrder
	}
	return order, nil
}

// LoadOrderFile reads an order from disk. Files ending in .yaml or .yml hold
// designs and flowers lists; anything else uses the line format.
func LoadOrderFile(path string) (Order, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Order{}, fmt.Errorf("read file: %w", err)
		}
		var order Order
		if err := yaml.Unmarshal(data, &order); err != nil {
			return Order{}, fmt.Errorf("parse YAML: %w", err)
		}
		if len(order.Designs) == 0 {
			return Order{}, ErrEmptyOrder
		}
		return order, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return Order{}, fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		return ReadOrder(f)
	}
}
