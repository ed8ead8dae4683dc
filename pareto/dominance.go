package pareto

import "github.com/Yashgit1728/AstroForge-sub000/genetic"

// Dominates returns whether a Pareto dominates b: never worse on any objective both
// carry, and strictly better on at least one. Individuals without objective values
// neither dominate nor are dominated.
func Dominates(a, b *genetic.Individual, objectives []Objective) bool {
	if len(a.Objectives) == 0 || len(b.Objectives) == 0 {
		return false
	}
	better := false
	for _, obj := range objectives {
		va, okA := a.Objectives[obj.Name]
		vb, okB := b.Objectives[obj.Name]
		if !okA || !okB {
			continue
		}
		if obj.Better(vb, va) {
			return false
		}
		if obj.Better(va, vb) {
			better = true
		}
	}
	return better
}

// Sort partitions the individuals carrying objective values into fronts of increasing rank.
// Every pair is compared, so the cost is quadratic in the number of individuals.
func Sort(individuals []*genetic.Individual, objectives []Objective) []Front {
	var scored []*genetic.Individual
	for _, ind := range individuals {
		if len(ind.Objectives) > 0 {
			scored = append(scored, ind)
		}
	}
	if len(scored) == 0 {
		return nil
	}
	count := make([]int, len(scored))
	dominated := make([][]int, len(scored))
	for i, a := range scored {
		for j, b := range scored {
			if i == j {
				continue
			}
			if Dominates(a, b, objectives) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(b, a, objectives) {
				count[i]++
			}
		}
	}

	var current []int
	for i, c := range count {
		if c == 0 {
			current = append(current, i)
		}
	}
	var fronts []Front
	for rank := 0; len(current) > 0; rank++ {
		front := Front{Rank: rank, Members: make([]*genetic.Individual, len(current))}
		var next []int
		for k, i := range current {
			front.Members[k] = scored[i]
			for _, j := range dominated[i] {
				count[j]--
				if count[j] == 0 {
					next = append(next, j)
				}
			}
		}
		fronts = append(fronts, front)
		current = next
	}
	return fronts
}
