package extractor

import (
	_ "embed"
	"os"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/vocab-cli/internal/model"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// CategoryRules drive the orchestrator's local category validation
// heuristics, layered atop the merger's resolved type.
type CategoryRules struct {
	// MedicalTerms is a dictionary of known medical vocabulary.
	MedicalTerms []string `yaml:"medical_terms"`
	// MedicalAffixes are substrings strongly indicating medical vocabulary
	// ("carcin", "itis", "ectomy").
	MedicalAffixes []string `yaml:"medical_affixes"`
	// OrgSuffixes mark organization names ("llc", "hospital").
	OrgSuffixes []string `yaml:"org_suffixes"`
	// PlaceIndicators mark place names ("county", "street").
	PlaceIndicators []string `yaml:"place_indicators"`
	// TechnicalTerms is a dictionary of known technical/legal vocabulary.
	TechnicalTerms []string `yaml:"technical_terms"`

	medical   map[string]bool
	technical map[string]bool
}

// LoadRules reads category rules from path, or the embedded defaults when
// path is empty. A present-but-broken rules file is a configuration error.
func LoadRules(path string) (*CategoryRules, error) {
	data := defaultRulesYAML
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "extractor: read rules %s", path)
		}
		data = fileData
	}

	var rules CategoryRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrap(err, "extractor: parse rules")
	}
	rules.index()
	return &rules, nil
}

func (r *CategoryRules) index() {
	r.medical = make(map[string]bool, len(r.MedicalTerms))
	for _, t := range r.MedicalTerms {
		r.medical[strings.ToLower(t)] = true
	}
	r.technical = make(map[string]bool, len(r.TechnicalTerms))
	for _, t := range r.TechnicalTerms {
		r.technical[strings.ToLower(t)] = true
	}
}

// Refine validates and refines a merged term's category. The merged type is
// kept unless a stronger local signal contradicts it; Unknown is upgraded
// whenever any heuristic matches.
func (r *CategoryRules) Refine(term string, merged model.Category) model.Category {
	lower := strings.ToLower(strings.TrimSpace(term))
	words := strings.Fields(lower)
	if len(words) == 0 {
		return merged
	}
	last := words[len(words)-1]

	// Organizational suffix beats a heuristic person/unknown guess.
	for _, suffix := range r.OrgSuffixes {
		if last == suffix {
			return model.CategoryOrganization
		}
	}

	for _, ind := range r.PlaceIndicators {
		if last == ind {
			return model.CategoryPlace
		}
	}

	// Dictionary membership: any word of the term.
	for _, w := range words {
		if r.medical[w] {
			return model.CategoryMedical
		}
	}
	for _, affix := range r.MedicalAffixes {
		if strings.Contains(lower, affix) {
			return model.CategoryMedical
		}
	}

	if merged != model.CategoryUnknown {
		return merged
	}

	for _, w := range words {
		if r.technical[w] {
			return model.CategoryTechnical
		}
	}

	// Capitalization pattern: an unclassified multi-word term in title case
	// reads as a person name.
	if titleCased(term) && len(words) >= 2 {
		return model.CategoryPerson
	}
	return merged
}

func titleCased(term string) bool {
	for _, w := range strings.Fields(term) {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
