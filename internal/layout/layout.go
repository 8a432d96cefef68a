// Package layout places exhibits on concentric horizontal rings.
package layout

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Position is a point in scene space. Y is up.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Placement pairs an item with its position and the zero-based ring it
// landed on.
type Placement[T any] struct {
	Item     T        `json:"item"`
	Position Position `json:"position"`
	Ring     int      `json:"ring"`
}

// RingConfig describes the rings for one layout call. Capacities and Radii
// are parallel. The last ring is unbounded: items beyond the declared
// capacities all land there, whatever its own capacity says.
type RingConfig struct {
	Capacities []int     `koanf:"capacities" json:"capacities" validate:"required,min=1,dive,gt=0"`
	Radii      []float64 `koanf:"radii" json:"radii" validate:"required,min=1,dive,gte=0"`
	Height     float64   `koanf:"height" json:"height"`
}

var validate = validator.New()

// Validate checks the preconditions ComputePositions assumes.
func Validate(cfg RingConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if len(cfg.Capacities) != len(cfg.Radii) {
		return fmt.Errorf("layout: %d capacities but %d radii", len(cfg.Capacities), len(cfg.Radii))
	}
	return nil
}

// ComputePositions assigns every item a point on its ring. Items fill rings
// in input order; within a ring of k items, item i sits at angle 2πi/k.
// The output has one placement per item, in input order.
//
// cfg is assumed valid; see Validate.
func ComputePositions[T any](items []T, cfg RingConfig) []Placement[T] {
	if len(items) == 0 || len(cfg.Radii) == 0 {
		return []Placement[T]{}
	}

	out := make([]Placement[T], 0, len(items))
	start := 0
	for ring := range cfg.Radii {
		k := len(items) - start
		if ring < len(cfg.Radii)-1 && ring < len(cfg.Capacities) && cfg.Capacities[ring] < k {
			k = cfg.Capacities[ring]
		}
		if k <= 0 {
			continue
		}
		radius := cfg.Radii[ring]
		for i := 0; i < k; i++ {
			theta := float64(i) / float64(k) * 2 * math.Pi
			out = append(out, Placement[T]{
				Item: items[start+i],
				Position: Position{
					X: math.Cos(theta) * radius,
					Y: cfg.Height,
					Z: math.Sin(theta) * radius,
				},
				Ring: ring,
			})
		}
		start += k
	}
	return out
}

// RingSizes reports how many of n items land on each ring.
func RingSizes(n int, cfg RingConfig) []int {
	sizes := make([]int, len(cfg.Radii))
	rest := n
	for ring := range sizes {
		k := rest
		if ring < len(sizes)-1 && ring < len(cfg.Capacities) && cfg.Capacities[ring] < k {
			k = cfg.Capacities[ring]
		}
		if k < 0 {
			k = 0
		}
		sizes[ring] = k
		rest -= k
	}
	return sizes
}

// Bounds returns the largest radius actually used by n items, which is
// what a renderer needs to fit the layout on screen. Zero when n is zero.
func Bounds(n int, cfg RingConfig) float64 {
	var r float64
	for ring, k := range RingSizes(n, cfg) {
		if k > 0 && cfg.Radii[ring] > r {
			r = cfg.Radii[ring]
		}
	}
	return r
}
