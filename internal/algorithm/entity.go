package algorithm

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sells-group/vocab-cli/internal/model"
)

// Strategy name constants shared with the merger and the default factory.
const (
	EntityName = "entity"
	PhraseName = "phrase"
	RarityName = "bm25_rarity"
)

// honorifics preceding a capitalized sequence mark it as a person name.
var honorifics = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"judge": true, "justice": true, "hon": true, "rev": true,
}

// orgSuffixes at the end of a capitalized sequence mark it as an organization.
var orgSuffixes = map[string]bool{
	"inc": true, "llc": true, "llp": true, "ltd": true, "corp": true,
	"co": true, "company": true, "hospital": true, "clinic": true,
	"center": true, "centre": true, "university": true, "institute": true,
	"associates": true, "group": true, "partners": true,
}

// EntityExtractor proposes proper-noun terms from capitalization patterns.
// It stands in for an external NER library: only its output contract (ranked
// CandidateTerms with suggested types) matters to the rest of the pipeline.
type EntityExtractor struct {
	weight float64
}

// NewEntityExtractor creates an EntityExtractor with the given trust weight.
func NewEntityExtractor(weight float64) *EntityExtractor {
	if weight <= 0 {
		weight = 1.0
	}
	return &EntityExtractor{weight: weight}
}

func (e *EntityExtractor) Name() string    { return EntityName }
func (e *EntityExtractor) Weight() float64 { return e.weight }

// Extract scans for capitalized word sequences and classifies them as
// person, organization, or place candidates.
func (e *EntityExtractor) Extract(ctx context.Context, text string, opts Options) (*model.AlgorithmResult, error) {
	start := time.Now()

	type entity struct {
		category   model.Category
		confidence float64
		count      int
	}
	found := make(map[string]*entity)
	order := []string{}

	words := strings.Fields(text)
	for i := 0; i < len(words); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isCapitalized(words[i]) {
			continue
		}
		// Honorifics are cues, not part of the name.
		if honorifics[strings.ToLower(strings.Trim(words[i], "."))] {
			continue
		}
		// Collect the full capitalized run. A word carrying trailing
		// punctuation ends the run, so appositives like "Later, Jane
		// Smith" do not merge across the comma.
		j := i
		for j < len(words) && isCapitalized(words[j]) {
			j++
			if breaksRun(words[j-1]) {
				break
			}
		}
		run := words[i:j]

		// Sentence-initial single capitalized words are usually just
		// sentence case, not entities.
		if len(run) == 1 && sentenceInitial(words, i) {
			i = j - 1
			continue
		}

		surface := strings.Join(trimPunct(run), " ")
		if len(surface) < 2 {
			i = j - 1
			continue
		}

		category, confidence := classifyRun(run, precedingWord(words, i))
		key := model.NormalizeTerm(surface)
		if ent, ok := found[key]; ok {
			ent.count++
			if confidence > ent.confidence {
				ent.confidence = confidence
				ent.category = category
			}
		} else {
			found[key] = &entity{category: category, confidence: confidence, count: 1}
			order = append(order, surface)
		}
		i = j - 1
	}

	var candidates []model.CandidateTerm
	for _, surface := range order {
		ent := found[model.NormalizeTerm(surface)]
		c := model.NewCandidateTerm(surface, EntityName, ent.confidence)
		c.SuggestedType = ent.category
		c.Frequency = ent.count
		c.Metadata = map[string]any{"pattern": "capitalization"}
		candidates = append(candidates, c)
		if opts.MaxCandidates > 0 && len(candidates) >= opts.MaxCandidates {
			break
		}
	}

	return &model.AlgorithmResult{
		Algorithm:      EntityName,
		Candidates:     candidates,
		ProcessingTime: time.Since(start),
	}, nil
}

// classifyRun assigns a category and confidence to a capitalized run based
// on surrounding cues.
func classifyRun(run []string, preceding string) (model.Category, float64) {
	last := strings.ToLower(strings.Trim(run[len(run)-1], ".,;:"))
	if orgSuffixes[last] {
		return model.CategoryOrganization, 0.9
	}
	if honorifics[strings.ToLower(strings.Trim(preceding, "."))] {
		return model.CategoryPerson, 0.95
	}
	if len(run) >= 2 {
		return model.CategoryPerson, 0.85
	}
	return model.CategoryUnknown, 0.6
}

func precedingWord(words []string, i int) string {
	if i == 0 {
		return ""
	}
	return words[i-1]
}

func isCapitalized(word string) bool {
	trimmed := strings.TrimLeft(word, `"'(`)
	if trimmed == "" {
		return false
	}
	r := []rune(trimmed)[0]
	return unicode.IsUpper(r)
}

func trimPunct(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.Trim(w, `"'().,;:`)
	}
	return out
}

// breaksRun reports whether the word's trailing punctuation ends a
// capitalized run. Honorific abbreviations ("Dr.") do not.
func breaksRun(word string) bool {
	if !strings.ContainsAny(word[len(word)-1:], ".,;:!?") {
		return false
	}
	return !honorifics[strings.ToLower(strings.TrimRight(word, "."))]
}

// endsSentence reports whether the word carries terminal punctuation.
// Honorific abbreviations ("Dr.") do not end a sentence.
func endsSentence(word string) bool {
	if !strings.HasSuffix(word, ".") && !strings.HasSuffix(word, "!") && !strings.HasSuffix(word, "?") {
		return false
	}
	return !honorifics[strings.ToLower(strings.TrimRight(word, "."))]
}

// sentenceInitial reports whether the word at i starts a sentence.
func sentenceInitial(words []string, i int) bool {
	if i == 0 {
		return true
	}
	return endsSentence(words[i-1])
}
