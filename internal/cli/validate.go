package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/value"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool          `json:"valid"`
	Types    []TypeSummary `json:"types"`
	Warnings []Warning     `json:"warnings,omitempty"`
}

// TypeSummary describes one loaded type.
type TypeSummary struct {
	Name       string `json:"name"`
	Parent     string `json:"parent,omitempty"`
	PrimaryKey string `json:"primary_key"`
	Records    int    `json:"records"`
}

// Warning is a data problem that does not stop loading.
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset>...",
		Short: "Validate datasets without querying",
		Long: `Load datasets the way query and serve do and report what was loaded.

Decoding errors, float values, unknown parents and inheritance cycles fail
validation. Duplicate or null primary keys are reported as warnings: the
finders still work, but find returns only the first of several records
sharing a key.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	reg, err := loadRegistry(cmd.Context(), formatter, files)
	if err != nil {
		return err
	}

	result := ValidationResult{Valid: true, Types: []TypeSummary{}}
	for _, t := range reg.Types() {
		summary := TypeSummary{
			Name:       t.Name(),
			PrimaryKey: t.PrimaryKey(),
			Records:    t.Store().Len(),
		}
		if p := t.Parent(); p != nil {
			summary.Parent = p.Name()
		}
		result.Types = append(result.Types, summary)
		result.Warnings = append(result.Warnings, keyWarnings(t)...)
		formatter.VerboseLog("Validated %s (%d records)", t.Name(), summary.Records)
	}

	return outputValidateSuccess(formatter, result)
}

// keyWarnings reports records with a null primary key and keys shared by
// more than one record.
func keyWarnings(t *model.Type) []Warning {
	var warnings []Warning
	pk := t.PrimaryKey()
	seen := make(map[string]int)
	for i, r := range t.Store().All() {
		key := r.PrimaryKey()
		if value.IsNull(key) {
			warnings = append(warnings, Warning{
				Type:    t.Name(),
				Message: fmt.Sprintf("record %d has no %s", i, pk),
			})
			continue
		}
		// Grouped by exact Go rendering, matching the strict key comparison
		// the finders use.
		exact := fmt.Sprintf("%#v", value.Native(key))
		if first, dup := seen[exact]; dup {
			warnings = append(warnings, Warning{
				Type:    t.Name(),
				Message: fmt.Sprintf("records %d and %d share %s=%s", first, i, pk, key),
			})
			continue
		}
		seen[exact] = i
	}
	return warnings
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, t := range result.Types {
		if t.Parent != "" {
			fmt.Fprintf(w, "  %s < %s (%s): %d record(s)\n", t.Name, t.Parent, t.PrimaryKey, t.Records)
		} else {
			fmt.Fprintf(w, "  %s (%s): %d record(s)\n", t.Name, t.PrimaryKey, t.Records)
		}
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "warning: %s: %s\n", warn.Type, warn.Message)
	}
	fmt.Fprintf(w, "✓ All datasets valid (%d type(s))\n", len(result.Types))
	return nil
}
