package engine

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/KaramelBytes/statify-cli/internal/mutate"
	"go.uber.org/zap"
)

// OpKind names a mutation operator.
type OpKind string

const (
	OpImpute    OpKind = "impute"
	OpTransform OpKind = "transform"
	OpDrop      OpKind = "drop"
)

// Operation is one mutation request. Strategy applies to impute and Transform
// to transform.
type Operation struct {
	Kind      OpKind          `json:"kind" yaml:"kind"`
	Column    string          `json:"column" yaml:"column"`
	Strategy  mutate.Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Transform mutate.Kind     `json:"transform,omitempty" yaml:"transform,omitempty"`
}

func (op Operation) String() string {
	switch op.Kind {
	case OpImpute:
		return fmt.Sprintf("impute %s (%s)", op.Column, op.Strategy)
	case OpTransform:
		return fmt.Sprintf("transform %s (%s)", op.Column, op.Transform)
	default:
		return fmt.Sprintf("%s %s", op.Kind, op.Column)
	}
}

// Mutate applies op and recomputes. An unknown column fails impute and
// transform with ErrUnknownColumn; dropping an unknown column does nothing.
// A numeric-only operation on a non-numeric column is logged and skipped.
func (e *Engine) Mutate(op Operation) (*DerivedState, error) {
	if e.ds == nil {
		return nil, ErrNoDataset
	}

	var (
		next *dataset.Dataset
		err  error
	)
	switch op.Kind {
	case OpImpute:
		next, err = mutate.Impute(e.ds, op.Column, op.Strategy)
	case OpTransform:
		next, err = mutate.Transform(e.ds, op.Column, op.Transform)
	case OpDrop:
		if !e.ds.HasColumn(op.Column) {
			e.log.Debug("drop of absent column ignored", zap.String("column", op.Column))
			return e.state, nil
		}
		next = mutate.DropColumn(e.ds, op.Column)
		e.filter = e.filter.Without(op.Column)
	default:
		return nil, fmt.Errorf("unknown operation %q", op.Kind)
	}

	if errors.Is(err, mutate.ErrNotNumeric) {
		e.log.Warn("operation skipped", zap.Stringer("op", op), zap.Error(err))
		return e.state, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	if next == e.ds {
		return e.state, nil
	}
	return e.replace(next), nil
}

func (e *Engine) Impute(col string, s mutate.Strategy) (*DerivedState, error) {
	return e.Mutate(Operation{Kind: OpImpute, Column: col, Strategy: s})
}

func (e *Engine) Transform(col string, k mutate.Kind) (*DerivedState, error) {
	return e.Mutate(Operation{Kind: OpTransform, Column: col, Transform: k})
}

func (e *Engine) Drop(col string) (*DerivedState, error) {
	return e.Mutate(Operation{Kind: OpDrop, Column: col})
}
