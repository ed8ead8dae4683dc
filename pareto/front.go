package pareto

import (
	"math"
	"sort"

	"github.com/Yashgit1728/AstroForge-sub000/genetic"
)

// Front is a set of mutually non-dominated individuals and its rank.
type Front struct {
	Rank    int
	Members []*genetic.Individual
}

// Len returns the number of members.
func (f Front) Len() int { return len(f.Members) }

// Range is the span of an objective over a front.
type Range struct {
	Min, Max float64
}

// Ranges returns the span of each objective over the members which carry it.
func (f Front) Ranges(objectives []Objective) map[string]Range {
	ranges := make(map[string]Range)
	for _, obj := range objectives {
		r, found := Range{Min: math.Inf(1), Max: math.Inf(-1)}, false
		for _, ind := range f.Members {
			if v, ok := ind.Objectives[obj.Name]; ok {
				r.Min, r.Max, found = math.Min(r.Min, v), math.Max(r.Max, v), true
			}
		}
		if found {
			ranges[obj.Name] = r
		}
	}
	return ranges
}

// Reference returns the default hypervolume reference point: 110% of the worst observed
// value of minimized objectives and 90% of the worst observed value of maximized ones.
func (f Front) Reference(objectives []Objective) map[string]float64 {
	ranges := f.Ranges(objectives)
	ref := make(map[string]float64, len(ranges))
	for _, obj := range objectives {
		r, ok := ranges[obj.Name]
		switch {
		case !ok:
		case obj.Direction == Maximize:
			ref[obj.Name] = r.Min * 0.9
		default:
			ref[obj.Name] = r.Max * 1.1
		}
	}
	return ref
}

// Hypervolume returns the area dominated by the front up to the default reference point.
// It is exact for two objectives only: for any other number of objectives it returns the
// number of members, which is a placeholder and not a hypervolume.
func (f Front) Hypervolume(objectives []Objective) float64 {
	if len(f.Members) == 0 {
		return 0
	}
	if len(objectives) != 2 {
		return float64(len(f.Members))
	}
	return f.hypervolume2D(objectives, f.Reference(objectives))
}

// hypervolume2D sweeps the members by increasing first objective, both objectives being
// turned into minimizations.
func (f Front) hypervolume2D(objectives []Objective, reference map[string]float64) float64 {
	o1, o2 := objectives[0], objectives[1]
	ref1, ok1 := reference[o1.Name]
	ref2, ok2 := reference[o2.Name]
	if !ok1 || !ok2 {
		return 0
	}
	flip := func(o Objective, v float64) float64 {
		if o.Direction == Maximize {
			return -v
		}
		return v
	}
	ref1, ref2 = flip(o1, ref1), flip(o2, ref2)
	type point struct{ x, y float64 }
	var points []point
	for _, ind := range f.Members {
		x, okX := ind.Objectives[o1.Name]
		y, okY := ind.Objectives[o2.Name]
		if okX && okY {
			points = append(points, point{flip(o1, x), flip(o2, y)})
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].x != points[j].x {
			return points[i].x < points[j].x
		}
		return points[i].y < points[j].y
	})
	var volume float64
	ceiling := ref2
	for _, p := range points {
		if p.x >= ref1 || p.y >= ceiling {
			continue
		}
		volume += (ref1 - p.x) * (ceiling - p.y)
		ceiling = p.y
	}
	return volume
}
