package astroforge

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestExportCSV(t *testing.T) {
	m := earthToMars()
	res, err := NewSimulator(NewFuelModel(), nil).Simulate(context.Background(), m, true)
	if err != nil {
		t.Fatal(err)
	}
	traj, _ := res.Trajectory()
	var buf bytes.Buffer
	if err := WriteWaypointsCSV(&buf, traj.Waypoints, m.Trajectory.LaunchWindow.Start); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(traj.Waypoints)+1 || len(records[0]) != 8 {
		t.Fatalf("%d records of %d columns", len(records), len(records[0]))
	}
	last, err := strconv.ParseFloat(records[len(records)-1][1], 64)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(last, traj.TransferDays, 1e-6) {
		t.Fatalf("last waypoint at %f days, transfer lasts %f days", last, traj.TransferDays)
	}

	dir := t.TempDir()
	paths, err := ExportResult(dir, "mars", res, m.Trajectory.LaunchWindow.Start)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected fuel and trajectory files, got %v", paths)
	}
	for _, p := range paths {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Fatalf("%s not written: %v", p, err)
		}
	}
}
