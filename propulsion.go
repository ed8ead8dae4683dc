package astroforge

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultEfficiency is the propulsion efficiency η applied to the rocket equation.
const DefaultEfficiency = 0.95

// FuelModel estimates propellant usage from the rocket equation.
type FuelModel struct {
	Efficiency float64 // η in (0, 1]
}

// NewFuelModel returns a fuel model with the default efficiency.
func NewFuelModel() FuelModel {
	return FuelModel{Efficiency: DefaultEfficiency}
}

// Consumption returns the fuel in kg needed for Δv, clamped to [0, fuel capacity].
func (f FuelModel) Consumption(Δv float64, sc SpacecraftConfig) float64 {
	if Δv <= 0 {
		return 0
	}
	η := f.Efficiency
	if η <= 0 {
		η = DefaultEfficiency
	}
	ve := sc.Isp * g0 * η
	if ve <= 0 {
		// No exhaust velocity: every bit of fuel is spent without effect.
		return sc.FuelCapacity
	}
	mr := math.Exp(Δv / ve)
	fuel := sc.DryMass() * (mr - 1)
	return clamp(fuel, 0, sc.FuelCapacity)
}

// BurnTime returns the burn duration in seconds assuming constant acceleration.
// Mass depletion during the burn is ignored.
func BurnTime(Δv float64, sc SpacecraftConfig) float64 {
	if Δv <= 0 || sc.Thrust <= 0 {
		return 0
	}
	return Δv / (sc.Thrust / sc.Mass)
}

// Preset is a named reference spacecraft.
type Preset struct {
	Description string
	Config      SpacecraftConfig
}

var presets = map[string]Preset{
	"cubesat-3u": {"Standard 3U CubeSat for LEO missions",
		SpacecraftConfig{CubeSat, "CubeSat 3U", 4, 0.5, 0.1, 220, 1.5, 20}},
	"cubesat-6u": {"6U CubeSat with enhanced capabilities",
		SpacecraftConfig{CubeSat, "CubeSat 6U", 8, 1, 0.2, 230, 3, 40}},
	"smallsat": {"Standard small satellite for Earth observation",
		SpacecraftConfig{SmallSat, "SmallSat Standard", 150, 30, 5, 280, 50, 500}},
	"medium-sat": {"Medium-class satellite for communications",
		SpacecraftConfig{MediumSat, "Medium Satellite", 1500, 400, 50, 320, 600, 3000}},
	"large-geo": {"Large geostationary communications satellite",
		SpacecraftConfig{LargeSat, "Large Geostationary Satellite", 6000, 2000, 400, 350, 2500, 15000}},
	"mars-probe": {"Interplanetary probe for Mars exploration",
		SpacecraftConfig{Probe, "Mars Reconnaissance Probe", 2180, 800, 90, 330, 400, 2000}},
	"lunar-lander": {"Lunar surface lander",
		SpacecraftConfig{Lander, "Lunar Lander", 3500, 2200, 15000, 311, 800, 1500}},
	"mars-rover": {"Mars surface rover, delivered by a separate lander",
		SpacecraftConfig{Rover, "Mars Rover", 899, 0, 0, 0, 65, 110}},
	"crew-capsule": {"Crewed capsule for LEO and cislunar transport",
		SpacecraftConfig{Crewed, "Crew Dragon Capsule", 12055, 1388, 7400, 300, 6000, 4000}},
}

// PresetFromString returns the preset spacecraft from its key.
func PresetFromString(key string) (Preset, error) {
	p, ok := presets[strings.ToLower(key)]
	if !ok {
		return Preset{}, fmt.Errorf("undefined vehicle preset '%s'", key)
	}
	return p, nil
}

// PresetKeys returns the sorted list of preset keys.
func PresetKeys() []string {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
