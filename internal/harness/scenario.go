package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/staticmodel/internal/model"
)

// Scenario defines a finder test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Datasets lists dataset files, applied in order.
	Datasets []string `yaml:"datasets"`

	// Steps are run in order against the loaded registry.
	Steps []Step `yaml:"steps"`
}

// Step is one finder call with its expected outcome.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Type is the registered type name.
	Type string `yaml:"type"`

	// Conditions is the condition map for where, find_by and find_by!.
	// A node is kept so that an absent field and an explicit null differ.
	Conditions yaml.Node `yaml:"conditions,omitempty"`

	// Key is the primary key (or list of keys) for find.
	Key any `yaml:"key,omitempty"`

	// Attribute names the attribute for pluck and index.
	Attribute string `yaml:"attribute,omitempty"`

	// Expect is checked against the step outcome.
	Expect Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step. Unset fields are not
// checked.
type Expect struct {
	// Keys are the primary keys of the returned records, in order.
	Keys []any `yaml:"keys,omitempty"`

	// Values are the plucked values, in order.
	Values []any `yaml:"values,omitempty"`

	// Index maps index keys to primary keys.
	Index map[string]any `yaml:"index,omitempty"`

	// Count is the number of records, values or index entries.
	Count *int `yaml:"count,omitempty"`

	// Error is ErrorNotFound or ErrorInvalidUsage.
	Error string `yaml:"error,omitempty"`

	// Missing are the keys a not_found error must report.
	Missing []any `yaml:"missing,omitempty"`
}

// Step operations.
const (
	OpAll          = "all"
	OpWhere        = "where"
	OpFindBy       = "find_by"
	OpFindByStrict = "find_by!"
	OpFind         = "find"
	OpPluck        = "pluck"
	OpIndex        = "index"
)

// Expected error kinds.
const (
	ErrorNotFound     = "not_found"
	ErrorInvalidUsage = "invalid_usage"
)

// HasConditions reports whether the conditions field was given at all.
func (s Step) HasConditions() bool {
	return s.Conditions.Kind != 0
}

// conditionArgs returns the variadic argument list for the condition
// finders: none when the field is absent, one nil map for an explicit null.
func (s Step) conditionArgs() ([]model.Conditions, error) {
	if !s.HasConditions() {
		return nil, nil
	}
	if s.Conditions.ShortTag() == "!!null" {
		return []model.Conditions{nil}, nil
	}
	var conds map[string]any
	if err := s.Conditions.Decode(&conds); err != nil {
		return nil, fmt.Errorf("conditions: %w", err)
	}
	if conds == nil {
		conds = map[string]any{}
	}
	return []model.Conditions{conds}, nil
}

// LoadScenario reads and parses a scenario YAML file. Dataset paths are
// resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative dataset paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	for i, ds := range scenario.Datasets {
		if !filepath.IsAbs(ds) && basePath != "" {
			scenario.Datasets[i] = filepath.Join(basePath, ds)
		}
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML. Dataset paths are left
// as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Datasets) == 0 {
		return fmt.Errorf("datasets list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	if step.Type == "" {
		return fmt.Errorf("steps[%d]: type is required", index)
	}

	switch step.Op {
	case OpAll:
	case OpWhere, OpFindBy, OpFindByStrict:
		if step.HasConditions() && step.Conditions.ShortTag() != "!!null" && step.Conditions.Kind != yaml.MappingNode {
			return fmt.Errorf("steps[%d]: conditions must be a mapping or null", index)
		}
	case OpFind:
		if step.Key == nil {
			return fmt.Errorf("steps[%d]: key is required for find", index)
		}
	case OpPluck, OpIndex:
		if step.Attribute == "" {
			return fmt.Errorf("steps[%d]: attribute is required for %s", index, step.Op)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	switch step.Expect.Error {
	case "", ErrorNotFound, ErrorInvalidUsage:
	default:
		return fmt.Errorf("steps[%d]: unknown expected error %q", index, step.Expect.Error)
	}
	if len(step.Expect.Missing) > 0 && step.Expect.Error != ErrorNotFound {
		return fmt.Errorf("steps[%d]: missing requires error: %s", index, ErrorNotFound)
	}
	return nil
}
