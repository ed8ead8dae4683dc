package astroforge

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteWaypointsCSV writes the waypoints with their Julian date relative to launch.
func WriteWaypointsCSV(w io.Writer, wps []Waypoint, launch time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"jde", "time_days", "x_km", "y_km", "z_km", "vx_kms", "vy_kms", "vz_kms"}); err != nil {
		return err
	}
	jd0 := julian.TimeToJD(launch)
	for _, wp := range wps {
		rec := []string{ftoa(jd0 + wp.TimeDays), ftoa(wp.TimeDays)}
		for _, v := range wp.Position {
			rec = append(rec, ftoa(v))
		}
		for _, v := range wp.Velocity {
			rec = append(rec, ftoa(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFuelTimelineCSV writes the fuel timeline.
func WriteFuelTimelineCSV(w io.Writer, samples []FuelSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_days", "fuel_remaining_kg", "fuel_used_cumulative_kg"}); err != nil {
		return err
	}
	for _, s := range samples {
		if err := cw.Write([]string{ftoa(s.TimeDays), ftoa(s.Remaining), ftoa(s.Cumulative)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportResult writes the fuel timeline, and the trajectory when available, of a
// simulation into dir. It returns the paths of the written files.
func ExportResult(dir, name string, res SimulationResult, launch time.Time) ([]string, error) {
	var paths []string
	write := func(suffix string, f func(io.Writer) error) error {
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.csv", name, suffix))
		fh, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := f(fh); err != nil {
			fh.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
		return fh.Close()
	}
	if err := write("fuel", func(w io.Writer) error { return WriteFuelTimelineCSV(w, res.FuelTimeline()) }); err != nil {
		return paths, err
	}
	if traj, ok := res.Trajectory(); ok {
		if err := write("traj", func(w io.Writer) error { return WriteWaypointsCSV(w, traj.Waypoints, launch) }); err != nil {
			return paths, err
		}
	}
	return paths, nil
}
