package algorithm

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/sells-group/vocab-cli/internal/model"
)

// phraseStopwords are function words excluded from phrase boundaries.
var phraseStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "has": true,
	"have": true, "had": true, "that": true, "this": true, "these": true,
	"those": true, "it": true, "its": true, "not": true, "no": true,
	"will": true, "shall": true, "may": true, "any": true, "all": true,
	"such": true, "other": true, "which": true, "who": true, "whom": true,
}

// PhraseExtractor proposes multi-word terms from repeated content-word
// co-occurrence: bigrams and trigrams that appear more than once without an
// intervening stopword are likely domain phrases ("summary judgment",
// "stage four adenocarcinoma").
type PhraseExtractor struct {
	weight   float64
	minCount int
}

// NewPhraseExtractor creates a PhraseExtractor. minCount is the occurrence
// floor below which a phrase is ignored; values < 2 are raised to 2.
func NewPhraseExtractor(weight float64, minCount int) *PhraseExtractor {
	if weight <= 0 {
		weight = 1.0
	}
	if minCount < 2 {
		minCount = 2
	}
	return &PhraseExtractor{weight: weight, minCount: minCount}
}

func (p *PhraseExtractor) Name() string    { return PhraseName }
func (p *PhraseExtractor) Weight() float64 { return p.weight }

// Extract counts content-word bigrams and trigrams and returns those at or
// above the occurrence floor, ranked by count.
func (p *PhraseExtractor) Extract(ctx context.Context, text string, opts Options) (*model.AlgorithmResult, error) {
	start := time.Now()

	words := contentWords(text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	surface := make(map[string]string)
	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(words); i++ {
			gram := words[i : i+n]
			if broken(gram) {
				continue
			}
			phrase := strings.Join(lowerAll(gram), " ")
			counts[phrase]++
			if _, seen := surface[phrase]; !seen {
				surface[phrase] = strings.Join(gram, " ")
			}
		}
	}

	type scored struct {
		phrase string
		count  int
	}
	var kept []scored
	for phrase, count := range counts {
		if count >= p.minCount {
			kept = append(kept, scored{phrase, count})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].count != kept[j].count {
			return kept[i].count > kept[j].count
		}
		return kept[i].phrase < kept[j].phrase
	})

	var candidates []model.CandidateTerm
	for _, s := range kept {
		if opts.MaxCandidates > 0 && len(candidates) >= opts.MaxCandidates {
			break
		}
		// Confidence grows with repetition and saturates at 0.9: repetition
		// alone never beats a direct entity match.
		confidence := 0.4 + 0.1*float64(s.count)
		if confidence > 0.9 {
			confidence = 0.9
		}
		c := model.NewCandidateTerm(surface[s.phrase], PhraseName, confidence)
		c.SuggestedType = model.CategoryTechnical
		c.Frequency = s.count
		c.Metadata = map[string]any{"ngram": len(strings.Fields(s.phrase))}
		candidates = append(candidates, c)
	}

	return &model.AlgorithmResult{
		Algorithm:      PhraseName,
		Candidates:     candidates,
		ProcessingTime: time.Since(start),
	}, nil
}

// contentWords splits text into cleaned words, marking stopword and
// sentence-boundary positions with empty strings so n-grams never cross them.
func contentWords(text string) []string {
	raw := strings.Fields(text)
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		terminal := strings.ContainsAny(w, ".!?;:")
		cleaned := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len(cleaned) < 2 || phraseStopwords[strings.ToLower(cleaned)] {
			out = append(out, "")
		} else {
			out = append(out, cleaned)
		}
		// Punctuation after a word breaks the phrase window.
		if terminal && len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}
	}
	return out
}

func broken(gram []string) bool {
	for _, w := range gram {
		if w == "" {
			return true
		}
	}
	return false
}

func lowerAll(gram []string) []string {
	out := make([]string, len(gram))
	for i, w := range gram {
		out[i] = strings.ToLower(w)
	}
	return out
}
