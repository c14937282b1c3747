package api

import (
	"encoding/json"
	"fmt"

	"github.com/erazemk/zaloga/internal/inventory"
)

// operationEnvelope is the body of POST /api/stock/operations:
//
//	{"op": "transfer", "payload": {...}}
type operationEnvelope struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeOperation turns an operation kind and its JSON payload into the
// matching inventory request.
func DecodeOperation(kind string, payload json.RawMessage) (inventory.Operation, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("missing payload")
	}

	var op inventory.Operation
	var err error
	switch kind {
	case inventory.KindAdjust:
		op, err = decodePayload[inventory.AdjustRequest](payload)
	case inventory.KindTransfer:
		op, err = decodePayload[inventory.TransferRequest](payload)
	case inventory.KindEdit:
		op, err = decodePayload[inventory.EditUnitRequest](payload)
	case inventory.KindDelete:
		op, err = decodePayload[inventory.DeleteUnitRequest](payload)
	case inventory.KindRestore:
		op, err = decodePayload[inventory.RestoreRequest](payload)
	default:
		return nil, fmt.Errorf("unknown operation %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", kind, err)
	}
	return op, nil
}

func decodePayload[T inventory.Operation](payload json.RawMessage) (inventory.Operation, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// withActor stamps the acting user on a decoded operation.
func withActor(op inventory.Operation, user string) inventory.Operation {
	switch o := op.(type) {
	case inventory.AdjustRequest:
		o.Actor = user
		return o
	case inventory.TransferRequest:
		o.Actor = user
		return o
	case inventory.EditUnitRequest:
		o.Actor = user
		return o
	case inventory.DeleteUnitRequest:
		o.Actor = user
		return o
	case inventory.RestoreRequest:
		o.Actor = user
		return o
	}
	return op
}
