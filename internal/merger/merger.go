// Package merger fuses candidates from all algorithms run in one pass into
// deduplicated, conflict-resolved terms.
package merger

import (
	"sync"

	"github.com/sells-group/vocab-cli/internal/algorithm"
	"github.com/sells-group/vocab-cli/internal/model"
)

// entityTieBreak is subtracted from the entity algorithm's category rank so
// its type suggestions win ties against weaker heuristic guesses. It is
// smaller than 1 so it never overrides the fixed precedence order itself.
const entityTieBreak = 0.5

// Merger groups candidates by normalized term and resolves conflicts in
// confidence, type, and frequency. Weights are mutable at runtime without
// reconstructing the merger.
type Merger struct {
	mu      sync.RWMutex
	weights map[string]float64
}

// New creates a Merger with the given per-algorithm trust weights. Unlisted
// algorithms default to weight 1.0.
func New(weights map[string]float64) *Merger {
	w := make(map[string]float64, len(weights))
	for name, weight := range weights {
		if weight > 0 {
			w[name] = weight
		}
	}
	return &Merger{weights: w}
}

// SetWeight updates one algorithm's trust weight (e.g. from the
// meta-learner) for subsequent merges.
func (m *Merger) SetWeight(algorithm string, weight float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if weight <= 0 {
		delete(m.weights, algorithm)
		return
	}
	m.weights[algorithm] = weight
}

func (m *Merger) weight(algorithm string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.weights[algorithm]; ok {
		return w
	}
	return 1.0
}

// group accumulates one normalized term's contributions during a merge.
type group struct {
	surface      string
	sources      []string
	weightedSum  float64
	weightTotal  float64
	frequency    int
	bestType     model.Category
	bestTypeRank float64
	metadata     map[string]any
}

// Merge fuses all candidates from the given results into one MergedTerm per
// distinct normalized term. Output order follows first appearance; ranking
// is the orchestrator's concern.
func (m *Merger) Merge(results []*model.AlgorithmResult) []model.MergedTerm {
	groups := make(map[string]*group)
	var order []string

	for _, result := range results {
		if result == nil {
			continue
		}
		for _, c := range result.Candidates {
			key := model.NormalizeTerm(c.Term)
			if key == "" {
				continue
			}
			g, ok := groups[key]
			if !ok {
				g = &group{
					surface:      c.Term,
					bestType:     model.CategoryUnknown,
					bestTypeRank: rankFor(model.CategoryUnknown, ""),
					metadata:     make(map[string]any),
				}
				groups[key] = g
				order = append(order, key)
			}

			w := m.weight(c.SourceAlgorithm)
			g.weightedSum += c.Confidence * w
			g.weightTotal += w
			g.frequency += c.Frequency
			if !contains(g.sources, c.SourceAlgorithm) {
				g.sources = append(g.sources, c.SourceAlgorithm)
			}

			// Lower rank wins; the entity algorithm gets a tie-break bonus.
			if r := rankFor(c.SuggestedType, c.SourceAlgorithm); r < g.bestTypeRank {
				g.bestTypeRank = r
				g.bestType = c.SuggestedType
			}

			// Retain each contributor's raw detail for ML features.
			g.metadata[c.SourceAlgorithm] = map[string]any{
				"confidence": c.Confidence,
				"frequency":  c.Frequency,
				"type":       string(c.SuggestedType),
				"detail":     c.Metadata,
			}
		}
	}

	merged := make([]model.MergedTerm, 0, len(order))
	for _, key := range order {
		g := groups[key]
		confidence := 0.0
		if g.weightTotal > 0 {
			confidence = g.weightedSum / g.weightTotal
		}
		merged = append(merged, model.MergedTerm{
			Term:               g.surface,
			Sources:            g.sources,
			CombinedConfidence: confidence,
			FinalType:          g.bestType,
			Frequency:          g.frequency,
			Metadata:           g.metadata,
		})
	}
	return merged
}

func rankFor(category model.Category, source string) float64 {
	r := float64(category.Rank())
	if source == algorithm.EntityName {
		r -= entityTieBreak
	}
	return r
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
