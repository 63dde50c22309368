// Package protocol validates inbound action batches at the system
// boundary and decodes them into typed orders. Coordinates may arrive in
// either the padded offset form or the axial form; decoding canonicalizes
// them.
package protocol

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

//go:embed actions.schema.json
var actionsSchema string

// ErrInvalidActions wraps every rejection of an inbound batch.
var ErrInvalidActions = errors.New("protocol: invalid actions")

var batchSchema = jsonschema.MustCompileString("actions.schema.json", actionsSchema)

// Batch is the wire form of one tribe's orders for a turn.
type Batch struct {
	Actions []social.GameAction `json:"actions"`
}

// DecodeActions validates raw against the action schema and decodes it.
func DecodeActions(raw []byte) ([]social.GameAction, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidActions, err)
	}
	if err := batchSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidActions, err)
	}
	var b Batch
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidActions, err)
	}
	return b.Actions, nil
}

// EncodeActions renders orders in wire form.
func EncodeActions(actions []social.GameAction) ([]byte, error) {
	if actions == nil {
		actions = []social.GameAction{}
	}
	raw, err := json.MarshalIndent(Batch{Actions: actions}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode actions: %w", err)
	}
	return raw, nil
}
