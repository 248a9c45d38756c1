// Package audit records who changed what. Entries ride the same async
// dispatcher as every other write, so auditing never slows a user action.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"tatausaha/internal/core/appctx"
	"tatausaha/internal/core/id"
	"tatausaha/internal/gateway"
)

// Action is the type of audited operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionCorrect Action = "correct"
)

// Compression algorithms for the changes payload.
const (
	compressionNone = "none"
	compressionZstd = "zstd"
)

// Service writes audit entries for stock corrections, sale mutations and
// settings changes. Large change payloads are zstd-compressed before they
// leave the process.
type Service struct {
	dispatcher        *gateway.Dispatcher
	encoder           *zstd.Encoder
	compressThreshold int
}

// NewService creates an audit service on the given dispatcher.
func NewService(dispatcher *gateway.Dispatcher) (*Service, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Service{
		dispatcher:        dispatcher,
		encoder:           encoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Log queues one audit entry. The changes map is the field-level diff of
// the operation; nil is allowed for operations without a before-state.
func (s *Service) Log(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) {
	rec := gateway.Record{
		"id":          id.Next(),
		"entity_type": entityType,
		"entity_id":   entityID,
		"action":      string(action),
		"actor":       appctx.Actor(ctx),
		"created_at":  time.Now().UTC(),
	}

	payload, err := json.Marshal(changes)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"_marshal_error":%q}`, err.Error()))
	}

	if len(payload) > s.compressThreshold {
		rec["changes"] = nil
		rec["changes_compressed"] = s.encoder.EncodeAll(payload, nil)
		rec["compression_algo"] = compressionZstd
	} else {
		rec["changes"] = json.RawMessage(payload)
		rec["changes_compressed"] = nil
		rec["compression_algo"] = compressionNone
	}

	s.dispatcher.Insert(ctx, gateway.TableAudit, rec)
}

// Diff calculates the field-level difference between two record states.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if fmt.Sprint(oldVal) != fmt.Sprint(newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}
	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}
