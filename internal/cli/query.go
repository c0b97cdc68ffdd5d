package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/staticmodel/internal/loader"
	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/value"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Type    string
	Where   []string // k=v or k=v1,v2
	First   bool
	Strict  bool
	Find    string
	FindAll string // comma separated keys
	Pluck   string
	Index   string
}

// QueryResult is the JSON payload for record queries.
type QueryResult struct {
	Type    string         `json:"type"`
	Count   int            `json:"count"`
	Records []model.Record `json:"records"`
}

// PluckResult is the JSON payload for --pluck.
type PluckResult struct {
	Type      string        `json:"type"`
	Attribute string        `json:"attribute"`
	Values    []value.Value `json:"values"`
}

// IndexResult is the JSON payload for --index.
type IndexResult struct {
	Type      string                  `json:"type"`
	Attribute string                  `json:"attribute"`
	Index     map[string]model.Record `json:"index"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <dataset>... --type <type>",
		Short: "Query records of one type",
		Long: `Load datasets and run one finder against a type.

Without a finder flag, query lists the records matching --where (all
records when --where is not given). Values given on the command line are
strings; a decimal string still finds an integer key.

Exit codes:
  0 - Query succeeded
  1 - Record not found (--find, --find-all, --strict)
  2 - Command error (bad dataset, unknown type, invalid flags)

Examples:
  staticmodel query countries.yaml --type Country --where language=English
  staticmodel query countries.yaml --type Country --where iso_code=CA,MX
  staticmodel query countries.yaml --type Country --strict --where language=Greek
  staticmodel query things.db --type things --find 2
  staticmodel query countries.yaml --type Country --find-all CA,MX
  staticmodel query countries.yaml --type Country --pluck name`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "type to query (required)")
	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "condition attr=value or attr=v1,v2 (repeatable)")
	cmd.Flags().BoolVar(&opts.First, "first", false, "return the first matching record, if any")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "return the first matching record or fail")
	cmd.Flags().StringVar(&opts.Find, "find", "", "find one record by primary key")
	cmd.Flags().StringVar(&opts.FindAll, "find-all", "", "find records by comma separated primary keys")
	cmd.Flags().StringVar(&opts.Pluck, "pluck", "", "print one attribute of every record")
	cmd.Flags().StringVar(&opts.Index, "index", "", "print records keyed by one attribute")
	_ = cmd.MarkFlagRequired("type")
	cmd.MarkFlagsMutuallyExclusive("first", "strict", "find", "find-all", "pluck", "index")

	return cmd
}

func runQuery(opts *QueryOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	flags := cmd.Flags()

	conds, err := parseWhere(opts.Where)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidUsage, err.Error(), nil)
	}
	byConditions := !flags.Changed("find") && !flags.Changed("find-all") && opts.Pluck == "" && opts.Index == ""
	if len(opts.Where) > 0 && !byConditions {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidUsage,
			"--where cannot be combined with --find, --find-all, --pluck or --index", nil)
	}

	reg, err := loadRegistry(cmd.Context(), formatter, files)
	if err != nil {
		return err
	}
	typ, ok := reg.Lookup(opts.Type)
	if !ok {
		return unknownType(formatter, reg, opts.Type)
	}
	store := typ.Store()

	var records []model.Record
	switch {
	case opts.Pluck != "":
		return outputPluck(formatter, typ, opts.Pluck, store.Pluck(opts.Pluck))
	case opts.Index != "":
		return outputIndex(formatter, typ, opts.Index, store.IndexBy(opts.Index))
	case flags.Changed("find"):
		var r model.Record
		r, err = store.Find(opts.Find)
		records = []model.Record{r}
	case flags.Changed("find-all"):
		records, err = store.FindAll(splitList(opts.FindAll))
	case opts.Strict:
		var r model.Record
		r, err = store.FindByStrict(conds)
		records = []model.Record{r}
	case opts.First:
		r, found, ferr := store.FindBy(conds)
		records, err = []model.Record{}, ferr
		if found {
			records = []model.Record{r}
		}
	default:
		records, err = store.Where(conds)
	}
	if err != nil {
		return finderError(formatter, err)
	}

	formatter.VerboseLog("%d %s record(s)", len(records), typ.Name())
	return outputRecords(formatter, typ, records)
}

// parseWhere merges repeated attr=value flags into one condition map. A
// comma separated value becomes a sequence condition.
func parseWhere(flags []string) (model.Conditions, error) {
	conds := model.Conditions{}
	for _, f := range flags {
		name, raw, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --where %q: want attr=value", f)
		}
		if _, dup := conds[name]; dup {
			return nil, fmt.Errorf("invalid --where %q: attribute %s given twice", f, name)
		}
		if strings.Contains(raw, ",") {
			conds[name] = splitList(raw)
		} else {
			conds[name] = raw
		}
	}
	return conds, nil
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// loadRegistry loads files into a fresh registry, reporting failures
// through formatter.
func loadRegistry(ctx context.Context, formatter *OutputFormatter, files []string) (*model.Registry, error) {
	reg := model.NewRegistry()
	datasets, err := loader.LoadFiles(ctx, reg, files...)
	if err != nil {
		return nil, formatter.Fail(loadExitCode(err), loadErrorCode(err), err.Error(), nil)
	}
	for _, ds := range datasets {
		formatter.VerboseLog("Loaded %s", ds)
	}
	return reg, nil
}

func loadErrorCode(err error) string {
	if code := loader.ErrorCode(err); code != "" {
		return code
	}
	return ErrCodeGeneric
}

// loadExitCode treats missing or unreadable inputs as command errors and
// bad dataset content as a validation failure.
func loadExitCode(err error) int {
	switch loader.ErrorCode(err) {
	case loader.ErrCodeNotFound, loader.ErrCodeUnsupportedFormat:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

func unknownType(formatter *OutputFormatter, reg *model.Registry, name string) error {
	var names []string
	for _, t := range reg.Types() {
		names = append(names, t.Name())
	}
	return formatter.Fail(ExitCommandError, ErrCodeUnknownType,
		fmt.Sprintf("type %q is not defined", name), map[string]any{"types": names})
}

func finderError(formatter *OutputFormatter, err error) error {
	var nf *model.NotFoundError
	switch {
	case errors.As(err, &nf):
		var details any
		if len(nf.Values) > 0 {
			details = map[string]any{"type": nf.Type, "key": nf.Key, "missing": nf.Values}
		}
		return formatter.Fail(ExitFailure, ErrCodeNotFound, err.Error(), details)
	case model.IsInvalidUsage(err):
		return formatter.Fail(ExitCommandError, ErrCodeInvalidUsage, err.Error(), nil)
	default:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
}

func outputRecords(formatter *OutputFormatter, typ *model.Type, records []model.Record) error {
	if formatter.Format == "json" {
		return formatter.Success(QueryResult{Type: typ.Name(), Count: len(records), Records: records})
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No records found.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(formatter.Writer, r)
	}
	return nil
}

func outputPluck(formatter *OutputFormatter, typ *model.Type, attr string, values []value.Value) error {
	if formatter.Format == "json" {
		return formatter.Success(PluckResult{Type: typ.Name(), Attribute: attr, Values: values})
	}

	for _, v := range values {
		fmt.Fprintln(formatter.Writer, v)
	}
	return nil
}

func outputIndex(formatter *OutputFormatter, typ *model.Type, attr string, index map[string]model.Record) error {
	if formatter.Format == "json" {
		return formatter.Success(IndexResult{Type: typ.Name(), Attribute: attr, Index: index})
	}

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(formatter.Writer, "%s\t%s\n", k, index[k])
	}
	return nil
}
