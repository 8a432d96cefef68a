package layout

import "github.com/naveenspark/museum/pkg/domain"

// Shrine is the preset name for the compact three-ring temple hall.
const Shrine = "shrine"

// Presets returns the ring layouts each gallery uses, keyed by exhibit kind
// plus Shrine. A fresh map is returned so callers may override entries.
func Presets() map[string]RingConfig {
	return map[string]RingConfig{
		string(domain.KindTemple): {
			Capacities: []int{20, 25, 45},
			Radii:      []float64{18, 24, 30},
			Height:     4.5,
		},
		Shrine: {
			Capacities: []int{20, 25, 45},
			Radii:      []float64{12, 16, 20},
			Height:     1.5,
		},
		// Weapons and fossils stand on a single ring. The last ring takes
		// every remaining item, so its capacity of 1 is never a limit.
		string(domain.KindWeapon): {
			Capacities: []int{1},
			Radii:      []float64{25},
			Height:     7.0,
		},
		string(domain.KindFossil): {
			Capacities: []int{1},
			Radii:      []float64{12},
			Height:     3.5,
		},
	}
}

// For returns the preset for name, or false when there is none.
func For(name string) (RingConfig, bool) {
	cfg, ok := Presets()[name]
	return cfg, ok
}
