package types

import (
	"encoding/json"
	"fmt"
)

// StageResult is the outcome of one pipeline stage: either a validated typed
// payload or an error marker recorded when the stage degraded. It marshals to
// the payload JSON on success and to {"error": "<message>"} on failure, so a
// stored plan round-trips byte-for-byte.
type StageResult struct {
	payload json.RawMessage
	errMsg  string
}

type stageErrorMarker struct {
	Error string `json:"error"`
}

// OKResult wraps a validated stage payload. The payload is re-serialized from
// the typed value, never passed through raw, so a well-formed result can not
// carry partial or extra shape.
func OKResult(v any) StageResult {
	b, err := json.Marshal(v)
	if err != nil {
		return ErrResult(fmt.Errorf("encode stage payload: %w", err))
	}
	return StageResult{payload: b}
}

// ErrResult records a degraded stage.
func ErrResult(err error) StageResult {
	msg := "stage failed"
	if err != nil {
		msg = err.Error()
	}
	return StageResult{errMsg: msg}
}

func (r StageResult) Failed() bool {
	return r.errMsg != ""
}

func (r StageResult) ErrorMessage() string {
	return r.errMsg
}

// Decode unmarshals the payload into v. Decoding a degraded or empty result
// is an error.
func (r StageResult) Decode(v any) error {
	if r.errMsg != "" {
		return fmt.Errorf("stage degraded: %s", r.errMsg)
	}
	if len(r.payload) == 0 {
		return fmt.Errorf("empty stage result")
	}
	return json.Unmarshal(r.payload, v)
}

func (r StageResult) MarshalJSON() ([]byte, error) {
	if r.errMsg != "" {
		return json.Marshal(stageErrorMarker{Error: r.errMsg})
	}
	if len(r.payload) == 0 {
		return []byte("{}"), nil
	}
	return r.payload, nil
}

func (r *StageResult) UnmarshalJSON(b []byte) error {
	var marker map[string]json.RawMessage
	if err := json.Unmarshal(b, &marker); err != nil {
		return err
	}
	if raw, ok := marker["error"]; ok && len(marker) == 1 {
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil {
			*r = StageResult{errMsg: msg}
			return nil
		}
	}
	cp := make(json.RawMessage, len(b))
	copy(cp, b)
	*r = StageResult{payload: cp}
	return nil
}
