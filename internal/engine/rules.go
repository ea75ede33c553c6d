package engine

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Tariff holds the fixed point value awarded per disposal category.
type Tariff struct {
	Donatable  int `yaml:"donatable"`
	Recyclable int `yaml:"recyclable"`
	General    int `yaml:"general"`
}

// rulesFile is the on-disk shape of a rule table.
type rulesFile struct {
	Tariff           Tariff   `yaml:"tariff"`
	Recyclable       []string `yaml:"recyclable"`
	Donatable        []string `yaml:"donatable"`
	CarbonKgPerPoint float64  `yaml:"carbon_kg_per_point"`
}

// Ruleset is the static classification rule table, loaded once at process
// start. Lookups are case-insensitive exact matches.
type Ruleset struct {
	recyclable       map[string]struct{}
	donatable        map[string]struct{}
	tariff           Tariff
	carbonKgPerPoint float64
}

// DefaultRuleset returns the compiled-in rule table.
func DefaultRuleset() *Ruleset {
	rs, err := parseRules(defaultRulesYAML)
	if err != nil {
		// The embedded table is validated by tests; a parse failure here is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded rules invalid: %v", err))
	}
	return rs
}

// LoadRuleset reads a rule table from path, or returns the embedded default
// when path is empty.
func LoadRuleset(path string) (*Ruleset, error) {
	if path == "" {
		return DefaultRuleset(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	rs, err := parseRules(raw)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rs, nil
}

func parseRules(raw []byte) (*Ruleset, error) {
	var file rulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	if file.Tariff.Donatable <= 0 || file.Tariff.Recyclable <= 0 || file.Tariff.General <= 0 {
		return nil, fmt.Errorf("%w: tariff values must be positive", common.ErrInvalidConfig)
	}
	if file.CarbonKgPerPoint < 0 {
		return nil, fmt.Errorf("%w: carbon_kg_per_point must be non-negative", common.ErrInvalidConfig)
	}
	if len(file.Recyclable) == 0 {
		return nil, fmt.Errorf("%w: recyclable label set is empty", common.ErrInvalidConfig)
	}

	rs := &Ruleset{
		recyclable:       make(map[string]struct{}, len(file.Recyclable)),
		donatable:        make(map[string]struct{}, len(file.Donatable)),
		tariff:           file.Tariff,
		carbonKgPerPoint: file.CarbonKgPerPoint,
	}
	for _, label := range file.Recyclable {
		rs.recyclable[normalizeLabel(label)] = struct{}{}
	}
	for _, label := range file.Donatable {
		rs.donatable[normalizeLabel(label)] = struct{}{}
	}
	return rs, nil
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Categorize resolves a detected label to its disposal category and point
// value. Donation supersedes plain recycling; unknown labels fall back to the
// general category.
func (r *Ruleset) Categorize(label string) (model.Category, int) {
	key := normalizeLabel(label)

	if _, ok := r.donatable[key]; ok {
		return model.CategoryDonatable, r.tariff.Donatable
	}
	if _, ok := r.recyclable[key]; ok {
		return model.CategoryRecyclable, r.tariff.Recyclable
	}
	return model.CategoryGeneral, r.tariff.General
}

// CarbonKgPerPoint returns the linear carbon-saved proxy factor.
func (r *Ruleset) CarbonKgPerPoint() float64 {
	return r.carbonKgPerPoint
}
