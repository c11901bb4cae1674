package detect

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Pattern is one weighted trigger or exclude phrase. Phrases match on
// whole-word boundaries, case-insensitively.
type Pattern struct {
	Match  string  `yaml:"match"`
	Weight float64 `yaml:"weight"`
}

// Workflow is one detectable workflow type with its step sequence.
type Workflow struct {
	Type     string    `yaml:"type"`
	Triggers []Pattern `yaml:"triggers"`
	Excludes []Pattern `yaml:"excludes"`
	Steps    []string  `yaml:"steps"`
}

// CatalogFile is the optional project-local override for the built-in
// catalog, conventionally .claude/workflows.yaml.
const CatalogFile = "workflows.yaml"

// LoadCatalog reads a workflow catalog from a YAML file. The file, when
// present, replaces the built-in catalog wholesale.
func LoadCatalog(path string) ([]Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Workflows []Workflow `yaml:"workflows"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Workflows, nil
}

// BuiltinCatalog returns the default workflow catalog. Specific phrases
// carry more weight than generic single words so that, for instance,
// "add a fix for the login bug" lands on bugfix rather than feature.
func BuiltinCatalog() []Workflow {
	return []Workflow{
		{
			Type: "bugfix",
			Triggers: []Pattern{
				{Match: "fix", Weight: 2},
				{Match: "bug", Weight: 2},
				{Match: "crash", Weight: 2},
				{Match: "not working", Weight: 2},
				{Match: "debug", Weight: 1.5},
				{Match: "error", Weight: 1.5},
				{Match: "broken", Weight: 1.5},
				{Match: "issue", Weight: 1},
				{Match: "fail", Weight: 1},
				{Match: "wrong", Weight: 1},
			},
			Steps: []string{"reproduce", "diagnose", "fix", "test"},
		},
		{
			Type: "feature",
			Triggers: []Pattern{
				{Match: "feature", Weight: 2},
				{Match: "implement", Weight: 2},
				{Match: "develop", Weight: 1.5},
				{Match: "build", Weight: 1},
				{Match: "create", Weight: 1},
				{Match: "add", Weight: 1},
				{Match: "write", Weight: 1},
				{Match: "make", Weight: 0.5},
			},
			Excludes: []Pattern{
				{Match: "fix", Weight: 2},
				{Match: "bug", Weight: 2},
				{Match: "error", Weight: 1.5},
			},
			Steps: []string{"plan", "implement", "test", "verify"},
		},
		{
			Type: "refactor",
			Triggers: []Pattern{
				{Match: "refactor", Weight: 3},
				{Match: "restructure", Weight: 2},
				{Match: "clean up", Weight: 1.5},
				{Match: "simplify", Weight: 1.5},
				{Match: "extract", Weight: 1},
			},
			Steps: []string{"survey", "refactor", "test"},
		},
		{
			Type: "test",
			Triggers: []Pattern{
				{Match: "unit test", Weight: 2.5},
				{Match: "coverage", Weight: 2},
				{Match: "test", Weight: 2},
				{Match: "validate", Weight: 1},
				{Match: "verify", Weight: 1},
			},
			Excludes: []Pattern{
				{Match: "fix", Weight: 1.5},
			},
			Steps: []string{"identify gaps", "write tests", "run tests"},
		},
		{
			Type: "docs",
			Triggers: []Pattern{
				{Match: "documentation", Weight: 2.5},
				{Match: "readme", Weight: 2.5},
				{Match: "document", Weight: 2},
				{Match: "docs", Weight: 2},
				{Match: "comment", Weight: 1},
			},
			Steps: []string{"outline", "write", "review"},
		},
		{
			Type: "review",
			Triggers: []Pattern{
				{Match: "review", Weight: 2.5},
				{Match: "audit", Weight: 2},
				{Match: "inspect", Weight: 1.5},
				{Match: "quality", Weight: 1},
			},
			Steps: []string{"scan", "report"},
		},
	}
}
