package astroforge

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxManeuverΔv       = 12000.0 // chemical propulsion limit
	maxBurnDuration     = 86400.0
	maxManeuvers        = 20
	ΔvReconcileε        = 100.0
	maxFuelMassFraction = 0.9
)

// VehicleType classifies a spacecraft.
type VehicleType string

// Supported vehicle types.
const (
	SmallSat  VehicleType = "small_sat"
	CubeSat   VehicleType = "cubesat"
	MediumSat VehicleType = "medium_sat"
	LargeSat  VehicleType = "large_sat"
	Probe     VehicleType = "probe"
	Lander    VehicleType = "lander"
	Rover     VehicleType = "rover"
	Crewed    VehicleType = "crewed"
)

// RiskLevel is the impact level of a risk factor.
type RiskLevel string

// Risk levels.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Maneuver is a single impulsive burn.
type Maneuver struct {
	Name      string
	Δv        float64 // m/s
	Duration  float64 // burn duration in seconds
	Timestamp float64 // days from mission start
}

// Validate checks the maneuver bounds.
func (m Maneuver) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, ValidationError{"maneuver.name", "must not be empty"})
	}
	if m.Δv < 0 {
		errs = append(errs, ValidationError{"maneuver.delta_v", "must be non negative"})
	} else if m.Δv > maxManeuverΔv {
		errs = append(errs, ValidationError{"maneuver.delta_v", "Delta-v exceeds typical chemical propulsion limits"})
	}
	if m.Duration < 0 || m.Duration > maxBurnDuration {
		errs = append(errs, ValidationError{"maneuver.duration", fmt.Sprintf("%.0f s outside [0, %.0f]", m.Duration, maxBurnDuration)})
	}
	if m.Timestamp < 0 {
		errs = append(errs, ValidationError{"maneuver.timestamp", "must be non negative"})
	}
	return errs.orNil()
}

// SpacecraftConfig is the vehicle being flown.
type SpacecraftConfig struct {
	Vehicle      VehicleType
	Name         string
	Mass         float64 // wet mass, kg
	FuelCapacity float64 // kg
	Thrust       float64 // N
	Isp          float64 // s
	PayloadMass  float64 // kg
	Power        float64 // W
}

// DryMass returns the mass without fuel.
func (sc SpacecraftConfig) DryMass() float64 {
	return sc.Mass - sc.FuelCapacity
}

// MassRatio returns the wet over dry mass ratio, or 1 without any dry mass.
func (sc SpacecraftConfig) MassRatio() float64 {
	dry := sc.DryMass()
	if dry <= 0 {
		return 1
	}
	return sc.Mass / dry
}

// ThrustToWeight returns the thrust to weight ratio at Earth's surface.
func (sc SpacecraftConfig) ThrustToWeight() float64 {
	return sc.Thrust / (sc.Mass * g0)
}

// TheoreticalΔv returns the ideal rocket equation capability.
func (sc SpacecraftConfig) TheoreticalΔv() float64 {
	return sc.Isp * g0 * math.Log(sc.MassRatio())
}

// Validate checks the spacecraft bounds.
func (sc SpacecraftConfig) Validate() error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{"spacecraft." + field, msg})
	}
	if strings.TrimSpace(sc.Name) == "" {
		add("name", "must not be empty")
	}
	if sc.Mass <= 0 || sc.Mass > 500000 {
		add("mass", fmt.Sprintf("%.1f kg outside (0, 500000]", sc.Mass))
	}
	if sc.FuelCapacity < 0 || sc.FuelCapacity > 400000 {
		add("fuel_capacity", fmt.Sprintf("%.1f kg outside [0, 400000]", sc.FuelCapacity))
	} else if sc.Mass > 0 && sc.FuelCapacity > maxFuelMassFraction*sc.Mass {
		add("fuel_capacity", "Fuel capacity cannot exceed 90% of total mass")
	}
	if sc.Thrust < 0 || sc.Thrust > 1e6 {
		add("thrust", fmt.Sprintf("%.1f N outside [0, 1e6]", sc.Thrust))
	}
	if sc.Isp < 0 || sc.Isp > 500 {
		add("specific_impulse", fmt.Sprintf("%.1f s outside [0, 500]", sc.Isp))
	}
	if sc.PayloadMass < 0 {
		add("payload_mass", "must be non negative")
	} else if sc.PayloadMass >= sc.Mass {
		add("payload_mass", "Payload mass must be less than total spacecraft mass")
	}
	if sc.Power <= 0 || sc.Power > 100000 {
		add("power", fmt.Sprintf("%.1f W outside (0, 100000]", sc.Power))
	}
	return errs.orNil()
}

// DateRange is a closed time interval.
type DateRange struct {
	Start, End time.Time
}

// TrajectoryPlan is the planned route of the mission.
type TrajectoryPlan struct {
	LaunchWindow DateRange
	Departure    CelestialBody
	Target       CelestialBody
	Transfer     TransferType
	Maneuvers    []Maneuver
	TotalΔv      float64 // m/s
	FlightTime   float64 // days
}

// ManeuverΔv returns the sum of the maneuvers' Δv.
func (t TrajectoryPlan) ManeuverΔv() (total float64) {
	for _, m := range t.Maneuvers {
		total += m.Δv
	}
	return
}

// Chronological returns whether the maneuvers are sorted by timestamp.
func (t TrajectoryPlan) Chronological() bool {
	return sort.SliceIsSorted(t.Maneuvers, func(i, j int) bool {
		return t.Maneuvers[i].Timestamp < t.Maneuvers[j].Timestamp
	})
}

// Validate checks the trajectory consistency.
func (t TrajectoryPlan) Validate() error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{"trajectory." + field, msg})
	}
	if !t.LaunchWindow.End.After(t.LaunchWindow.Start) {
		add("launch_window", "End date must be after start date")
	}
	if !t.Departure.Valid() {
		add("departure_body", fmt.Sprintf("unknown body '%s'", t.Departure))
	}
	if !t.Target.Valid() {
		add("target_body", fmt.Sprintf("unknown body '%s'", t.Target))
	}
	if t.Departure == t.Target {
		add("target_body", "Target body must be different from departure body")
	}
	if t.Transfer < Hohmann || t.Transfer > GravityAssist {
		add("transfer_type", fmt.Sprintf("unknown transfer %s", t.Transfer))
	}
	if len(t.Maneuvers) > maxManeuvers {
		add("maneuvers", "Too many maneuvers (max 20)")
	}
	for _, m := range t.Maneuvers {
		if err := m.Validate(); err != nil {
			errs = append(errs, err.(ValidationErrors)...)
		}
	}
	if !t.Chronological() {
		add("maneuvers", "Maneuvers must be in chronological order")
	}
	if t.TotalΔv < 0 || t.TotalΔv > 50000 {
		add("total_delta_v", fmt.Sprintf("%.0f m/s outside [0, 50000]", t.TotalΔv))
	}
	if len(t.Maneuvers) > 0 && math.Abs(t.TotalΔv-t.ManeuverΔv()) > ΔvReconcileε {
		add("total_delta_v", "Total delta-v does not match sum of maneuvers")
	}
	if t.FlightTime <= 0 || t.FlightTime > 3650 {
		add("flight_time_days", fmt.Sprintf("%.1f days outside (0, 3650]", t.FlightTime))
	}
	return errs.orNil()
}

// MissionConstraints bound the acceptable mission envelope.
type MissionConstraints struct {
	MaxDuration    float64 // days
	MaxΔv          float64 // m/s
	MaxMass        float64 // kg
	MinSuccess     float64
	MaxCost        float64 // USD, zero when unbounded
	LaunchVehicles map[string]string
}

// DefaultConstraints returns the default mission envelope.
func DefaultConstraints() MissionConstraints {
	return MissionConstraints{MaxDuration: 3650, MaxΔv: 15000, MaxMass: 10000, MinSuccess: 0.8}
}

// Milestone is a named point on the mission timeline.
type Milestone struct {
	Name        string
	Date        time.Time
	Description string
}

// MissionTimeline is the calendar view of the mission.
type MissionTimeline struct {
	LaunchDate time.Time
	Milestones []Milestone
	Phases     []string
}

// Mission is the full description of a space mission.
type Mission struct {
	ID          uuid.UUID
	Name        string
	Description string
	Objectives  []string
	Spacecraft  SpacecraftConfig
	Trajectory  TrajectoryPlan
	Timeline    MissionTimeline
	Constraints MissionConstraints
	Difficulty  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMission returns a mission with a fresh identifier and the default constraints.
func NewMission(name string, sc SpacecraftConfig, traj TrajectoryPlan) *Mission {
	now := time.Now().UTC()
	return &Mission{
		ID:          uuid.New(),
		Name:        name,
		Spacecraft:  sc,
		Trajectory:  traj,
		Timeline:    MissionTimeline{LaunchDate: traj.LaunchWindow.Start},
		Constraints: DefaultConstraints(),
		Difficulty:  1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the mission, sharing nothing mutable.
func (m *Mission) Clone() *Mission {
	c := *m
	c.Objectives = append([]string(nil), m.Objectives...)
	c.Trajectory.Maneuvers = append([]Maneuver(nil), m.Trajectory.Maneuvers...)
	c.Timeline.Milestones = append([]Milestone(nil), m.Timeline.Milestones...)
	c.Timeline.Phases = append([]string(nil), m.Timeline.Phases...)
	if m.Constraints.LaunchVehicles != nil {
		c.Constraints.LaunchVehicles = make(map[string]string, len(m.Constraints.LaunchVehicles))
		for k, v := range m.Constraints.LaunchVehicles {
			c.Constraints.LaunchVehicles[k] = v
		}
	}
	return &c
}

// Validate checks every section of the mission.
func (m *Mission) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, ValidationError{"name", "must not be empty"})
	}
	if len(m.Objectives) > 10 {
		errs = append(errs, ValidationError{"objectives", "at most 10 objectives"})
	}
	for _, obj := range m.Objectives {
		if len(strings.TrimSpace(obj)) < 5 {
			errs = append(errs, ValidationError{"objectives", "Each objective must be at least 5 characters long"})
		}
	}
	if m.Difficulty < 1 || m.Difficulty > 5 {
		errs = append(errs, ValidationError{"difficulty", fmt.Sprintf("%d outside [1, 5]", m.Difficulty)})
	}
	if m.UpdatedAt.Before(m.CreatedAt) {
		errs = append(errs, ValidationError{"updated_at", "Updated timestamp cannot be before created timestamp"})
	}
	for _, err := range []error{m.Spacecraft.Validate(), m.Trajectory.Validate()} {
		if err != nil {
			errs = append(errs, err.(ValidationErrors)...)
		}
	}
	for _, ms := range m.Timeline.Milestones {
		if ms.Name == "" || ms.Date.IsZero() || ms.Description == "" {
			errs = append(errs, ValidationError{"timeline.milestones", "Milestone must contain name, date and description"})
		}
	}
	return errs.orNil()
}

var distanceFactor = map[CelestialBody]float64{
	BodyMoon:         1.0,
	BodyMars:         2.0,
	BodyVenus:        1.5,
	BodyJupiter:      3.0,
	BodySaturn:       4.0,
	BodyAsteroidBelt: 2.5,
}

// Complexity returns a complexity score in [0, 5].
func (m *Mission) Complexity() float64 {
	c := float64(len(m.Trajectory.Maneuvers)) * 0.1
	c += m.Trajectory.TotalΔv / 1000 * 0.2
	if f, ok := distanceFactor[m.Trajectory.Target]; ok {
		c += f
	} else {
		c++
	}
	c += m.Trajectory.FlightTime / 365 * 0.5
	return math.Min(c, 5)
}

// FeasibilityIssues returns the human readable reasons this mission may not fly.
func (m *Mission) FeasibilityIssues() []string {
	var issues []string
	if have := m.Spacecraft.TheoreticalΔv(); have < m.Trajectory.TotalΔv {
		issues = append(issues, fmt.Sprintf("Insufficient delta-v capability: need %.0f m/s, have %.0f m/s", m.Trajectory.TotalΔv, have))
	}
	if m.Spacecraft.ThrustToWeight() < 0.1 {
		issues = append(issues, "Very low thrust-to-weight ratio may cause mission timeline issues")
	}
	if m.Trajectory.FlightTime > m.Constraints.MaxDuration {
		issues = append(issues, fmt.Sprintf("Mission duration exceeds constraints: %.0f > %.0f days", m.Trajectory.FlightTime, m.Constraints.MaxDuration))
	}
	return issues
}
