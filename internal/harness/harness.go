package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/staticmodel/internal/loader"
	"github.com/roach88/staticmodel/internal/model"
	"github.com/roach88/staticmodel/internal/value"
)

// errorUnknownType marks a step whose type is not registered. It is never
// an acceptable outcome.
const errorUnknownType = "unknown_type"

// Harness runs steps against one registry.
type Harness struct {
	registry *model.Registry
}

// New returns a harness over an already loaded registry.
func New(reg *model.Registry) *Harness {
	return &Harness{registry: reg}
}

// Run executes a scenario and returns the result.
//
// Each scenario loads its datasets into a fresh registry, so scenarios
// never see each other's records. A dataset that fails to load is an
// error; a step that misses its expectation only fails the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a context for dataset loading.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	reg := model.NewRegistry()
	if _, err := loader.LoadFiles(ctx, reg, scenario.Datasets...); err != nil {
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}
	return New(reg).Steps(scenario.Steps), nil
}

// Steps runs steps in order and checks each against its expectation.
func (h *Harness) Steps(steps []Step) *Result {
	result := NewResult()
	for i, step := range steps {
		ev := h.runStep(i, step)
		result.AddTrace(ev)
		for _, msg := range checkStep(i, step, ev) {
			result.AddError(msg)
		}
	}
	return result
}

func (h *Harness) runStep(index int, step Step) TraceEvent {
	ev := TraceEvent{Step: index, Op: step.Op, Type: step.Type}

	typ, ok := h.registry.Lookup(step.Type)
	if !ok {
		ev.Error = errorUnknownType
		ev.Message = fmt.Sprintf("type %q is not registered", step.Type)
		return ev
	}
	store := typ.Store()

	var (
		records []model.Record
		err     error
	)
	switch step.Op {
	case OpAll:
		records = store.All()
	case OpWhere, OpFindBy, OpFindByStrict:
		var args []model.Conditions
		args, err = step.conditionArgs()
		if err != nil {
			break
		}
		ev.Args = renderConditions(args)
		records, err = findWith(store, step.Op, args)
	case OpFind:
		ev.Args = model.Conditions{typ.PrimaryKey(): step.Key}.String()
		records, err = store.FindAny(step.Key)
	case OpPluck:
		ev.Args = step.Attribute
		ev.Values = store.Pluck(step.Attribute)
		ev.Count = len(ev.Values)
	case OpIndex:
		ev.Args = step.Attribute
		idx := store.IndexBy(step.Attribute)
		ev.Index = make(map[string]value.Value, len(idx))
		for k, r := range idx {
			ev.Index[k] = r.PrimaryKey()
		}
		ev.Count = len(idx)
	}

	if err != nil {
		ev.Error = errorKind(err)
		ev.Message = err.Error()
		var nf *model.NotFoundError
		if errors.As(err, &nf) {
			ev.missing = nf.Values
		}
		return ev
	}
	if records != nil {
		ev.Keys = make([]value.Value, len(records))
		for i, r := range records {
			ev.Keys[i] = r.PrimaryKey()
		}
		ev.Count = len(records)
	}
	return ev
}

func findWith(store *model.Store, op string, args []model.Conditions) ([]model.Record, error) {
	switch op {
	case OpFindBy:
		r, ok, err := store.FindBy(args...)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []model.Record{}, nil
		}
		return []model.Record{r}, nil
	case OpFindByStrict:
		r, err := store.FindByStrict(args...)
		if err != nil {
			return nil, err
		}
		return []model.Record{r}, nil
	default:
		return store.Where(args...)
	}
}

func renderConditions(args []model.Conditions) string {
	if len(args) == 0 {
		return ""
	}
	if args[0] == nil {
		return "null"
	}
	return args[0].String()
}

func errorKind(err error) string {
	switch {
	case model.IsNotFound(err):
		return ErrorNotFound
	case model.IsInvalidUsage(err):
		return ErrorInvalidUsage
	default:
		return "error"
	}
}
