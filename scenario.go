package astroforge

import (
	"fmt"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// ScenarioDateFormat is the layout of the dates of a scenario which are not Julian days.
const ScenarioDateFormat = "2006-01-02 15:04:05"

// OpenScenario reads a scenario TOML file. The extension may be omitted.
func OpenScenario(path string) (*viper.Viper, error) {
	if !strings.HasSuffix(path, ".toml") {
		path += ".toml"
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ReadJDEorTime reads a date given either as a Julian day or in ScenarioDateFormat.
func ReadJDEorTime(v *viper.Viper, key string) (time.Time, error) {
	if jde := v.GetFloat64(key); jde != 0 {
		return julian.JDToTime(jde).UTC(), nil
	}
	dt, err := time.Parse(ScenarioDateFormat, v.GetString(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("could not understand `%s`: %w", key, err)
	}
	return dt.UTC(), nil
}

// ReadMission builds the mission of a scenario from its mission, spacecraft, trajectory,
// maneuvers and constraints sections. A spacecraft preset is the base of the spacecraft
// section. The returned mission is not validated.
func ReadMission(v *viper.Viper) (*Mission, error) {
	var sc SpacecraftConfig
	if key := v.GetString("spacecraft.preset"); key != "" {
		preset, err := PresetFromString(key)
		if err != nil {
			return nil, err
		}
		sc = preset.Config
	}
	if v.IsSet("spacecraft.vehicle") {
		sc.Vehicle = VehicleType(strings.ToLower(v.GetString("spacecraft.vehicle")))
	}
	if v.IsSet("spacecraft.name") {
		sc.Name = v.GetString("spacecraft.name")
	}
	for key, field := range map[string]*float64{
		"spacecraft.mass":    &sc.Mass,
		"spacecraft.fuel":    &sc.FuelCapacity,
		"spacecraft.thrust":  &sc.Thrust,
		"spacecraft.isp":     &sc.Isp,
		"spacecraft.payload": &sc.PayloadMass,
		"spacecraft.power":   &sc.Power,
	} {
		if v.IsSet(key) {
			*field = v.GetFloat64(key)
		}
	}

	launch, err := ReadJDEorTime(v, "trajectory.launch")
	if err != nil {
		return nil, err
	}
	window := v.GetDuration("trajectory.window")
	if window <= 0 {
		window = maxWindowDuration * time.Second
	}
	transfer, err := TransferTypeFromString(v.GetString("trajectory.transfer"))
	if err != nil {
		return nil, err
	}
	traj := TrajectoryPlan{
		LaunchWindow: DateRange{Start: launch, End: launch.Add(window)},
		Departure:    CelestialBody(strings.ToLower(v.GetString("trajectory.departure"))),
		Target:       CelestialBody(strings.ToLower(v.GetString("trajectory.target"))),
		Transfer:     transfer,
		TotalΔv:      v.GetFloat64("trajectory.delta_v"),
		FlightTime:   v.GetFloat64("trajectory.flight_days"),
	}
	for no := 0; v.IsSet(fmt.Sprintf("maneuvers.%d", no)); no++ {
		key := fmt.Sprintf("maneuvers.%d", no)
		traj.Maneuvers = append(traj.Maneuvers, Maneuver{
			Name:      v.GetString(key + ".name"),
			Δv:        v.GetFloat64(key + ".delta_v"),
			Duration:  v.GetFloat64(key + ".duration"),
			Timestamp: v.GetFloat64(key + ".day"),
		})
	}

	name := v.GetString("mission.name")
	if name == "" {
		name = fmt.Sprintf("%s to %s", traj.Departure, traj.Target)
	}
	m := NewMission(name, sc, traj)
	m.Description = v.GetString("mission.description")
	m.Objectives = v.GetStringSlice("mission.objectives")
	if v.IsSet("mission.difficulty") {
		m.Difficulty = v.GetInt("mission.difficulty")
	}
	for key, field := range map[string]*float64{
		"constraints.max_duration": &m.Constraints.MaxDuration,
		"constraints.max_delta_v":  &m.Constraints.MaxΔv,
		"constraints.max_mass":     &m.Constraints.MaxMass,
		"constraints.min_success":  &m.Constraints.MinSuccess,
		"constraints.max_cost":     &m.Constraints.MaxCost,
	} {
		if v.IsSet(key) {
			*field = v.GetFloat64(key)
		}
	}
	return m, nil
}
