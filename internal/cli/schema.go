package cli

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/roach88/staticmodel/internal/loader"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of dataset files",
		Long: `Print the JSON Schema describing YAML and JSON dataset files.

Editors can use it to validate and complete dataset files:
  staticmodel schema > dataset.schema.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts, cmd)
		},
	}

	return cmd
}

// DatasetSchema returns the JSON Schema of the dataset file format.
func DatasetSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.Reflect(&loader.Dataset{})
	schema.Title = "staticmodel dataset"
	return schema
}

func runSchema(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	schema := DatasetSchema()

	if formatter.Format == "json" {
		return formatter.Success(schema)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to marshal schema", err)
	}
	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}
