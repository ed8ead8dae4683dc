package pareto

import (
	"math"
	"sort"

	"github.com/Yashgit1728/AstroForge-sub000/genetic"
	"github.com/google/uuid"
)

// CrowdingDistance returns the crowding distance of every member of the front, keyed by id.
// Fronts of at most two members are infinitely spread. Otherwise the extreme members of each
// objective are infinitely spread, and interior members accumulate the normalized gap between
// their neighbors. An objective which takes a single value adds nothing to interior members.
// Infinite values, carried by failed evaluations, are extreme and excluded from the spans.
func CrowdingDistance(f Front, objectives []Objective) map[uuid.UUID]float64 {
	distances := make(map[uuid.UUID]float64, len(f.Members))
	if len(f.Members) <= 2 {
		for _, ind := range f.Members {
			distances[ind.ID] = math.Inf(1)
		}
		return distances
	}
	for _, ind := range f.Members {
		distances[ind.ID] = 0
	}
	for _, obj := range objectives {
		var valid []*genetic.Individual
		for _, ind := range f.Members {
			if _, ok := ind.Objectives[obj.Name]; ok {
				valid = append(valid, ind)
			}
		}
		if len(valid) == 0 {
			continue
		}
		sort.SliceStable(valid, func(i, j int) bool {
			return valid[i].Objectives[obj.Name] < valid[j].Objectives[obj.Name]
		})
		finite := make([]*genetic.Individual, 0, len(valid))
		for _, ind := range valid {
			if v := ind.Objectives[obj.Name]; math.IsInf(v, 0) || math.IsNaN(v) {
				distances[ind.ID] = math.Inf(1)
				continue
			}
			finite = append(finite, ind)
		}
		if len(finite) == 0 {
			continue
		}
		first, last := finite[0], finite[len(finite)-1]
		distances[first.ID] = math.Inf(1)
		distances[last.ID] = math.Inf(1)
		span := last.Objectives[obj.Name] - first.Objectives[obj.Name]
		if len(finite) <= 2 || span == 0 {
			continue
		}
		for i := 1; i < len(finite)-1; i++ {
			distances[finite[i].ID] += (finite[i+1].Objectives[obj.Name] - finite[i-1].Objectives[obj.Name]) / span
		}
	}
	return distances
}

// Select fills up to n slots front by front in rank order. The first front which does not fit
// is truncated by decreasing crowding distance, and later fronts are ignored.
func Select(fronts []Front, n int, objectives []Objective) []*genetic.Individual {
	selected := make([]*genetic.Individual, 0, n)
	for _, front := range fronts {
		if len(selected)+front.Len() <= n {
			selected = append(selected, front.Members...)
			continue
		}
		if remaining := n - len(selected); remaining > 0 {
			distances := CrowdingDistance(front, objectives)
			sorted := append([]*genetic.Individual(nil), front.Members...)
			sort.SliceStable(sorted, func(i, j int) bool {
				return distances[sorted[i].ID] > distances[sorted[j].ID]
			})
			selected = append(selected, sorted[:remaining]...)
		}
		break
	}
	return selected
}
