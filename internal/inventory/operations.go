package inventory

import (
	"context"
	"fmt"
)

// Operation is one of the five stock-changing requests: AdjustRequest,
// TransferRequest, EditUnitRequest, DeleteUnitRequest or RestoreRequest.
type Operation interface {
	Kind() string
	operation()
}

// Operation kinds.
const (
	KindAdjust   = "adjust"
	KindTransfer = "transfer"
	KindEdit     = "edit"
	KindDelete   = "delete"
	KindRestore  = "restore"
)

func (AdjustRequest) Kind() string     { return KindAdjust }
func (TransferRequest) Kind() string   { return KindTransfer }
func (EditUnitRequest) Kind() string   { return KindEdit }
func (DeleteUnitRequest) Kind() string { return KindDelete }
func (RestoreRequest) Kind() string    { return KindRestore }

func (AdjustRequest) operation()     {}
func (TransferRequest) operation()   {}
func (EditUnitRequest) operation()   {}
func (DeleteUnitRequest) operation() {}
func (RestoreRequest) operation()    {}

// Apply runs op and returns its result.
func (s *Service) Apply(ctx context.Context, op Operation) (any, error) {
	var (
		result any
		err    error
	)

	switch op := op.(type) {
	case AdjustRequest:
		result, err = unwrap(s.AdjustBulkStock(ctx, op))
	case TransferRequest:
		result, err = unwrap(s.Transfer(ctx, op))
	case EditUnitRequest:
		result, err = unwrap(s.EditUnit(ctx, op))
	case DeleteUnitRequest:
		result, err = unwrap(s.DeleteUnit(ctx, op))
	case RestoreRequest:
		result, err = unwrap(s.RestoreUnit(ctx, op))
	default:
		return nil, invalidRequest("unsupported operation %T", op)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Kind(), err)
	}
	return result, nil
}

// unwrap keeps a nil result pointer from becoming a non-nil interface.
func unwrap[T any](v *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
