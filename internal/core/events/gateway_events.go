package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestSubmitted  = "gateway.request_submitted"
	EventTypeResponseGenerated = "gateway.response_generated"
	EventTypeRequestDenied     = "gateway.request_denied"
	EventTypeConsentChanged    = "compliance.consent_changed"
	EventTypeDataErased        = "compliance.data_erased"
	EventTypeRetentionEnforced = "compliance.retention_enforced"
)

type RequestSubmittedEvent struct {
	BaseEvent
	RequestID string `json:"request_id"`
	UserID    int64  `json:"user_id"`
	External  bool   `json:"external"`
}

func NewRequestSubmittedEvent(requestID string, userID int64, external bool) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id": requestID,
				"user_id":    userID,
				"external":   external,
			},
		},
		RequestID: requestID,
		UserID:    userID,
		External:  external,
	}
}

type ResponseGeneratedEvent struct {
	BaseEvent
	ResponseID string `json:"response_id"`
	RequestID  string `json:"request_id"`
	UserID     int64  `json:"user_id"`
	Backend    string `json:"backend"`
}

func NewResponseGeneratedEvent(responseID, requestID string, userID int64, backend string) *ResponseGeneratedEvent {
	return &ResponseGeneratedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeResponseGenerated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"response_id": responseID,
				"request_id":  requestID,
				"user_id":     userID,
				"backend":     backend,
			},
		},
		ResponseID: responseID,
		RequestID:  requestID,
		UserID:     userID,
		Backend:    backend,
	}
}

type RequestDeniedEvent struct {
	BaseEvent
	RequestID string `json:"request_id"`
	UserID    int64  `json:"user_id"`
	Reason    string `json:"reason"`
}

func NewRequestDeniedEvent(requestID string, userID int64, reason string) *RequestDeniedEvent {
	return &RequestDeniedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestDenied,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id": requestID,
				"user_id":    userID,
				"reason":     reason,
			},
		},
		RequestID: requestID,
		UserID:    userID,
		Reason:    reason,
	}
}

type ConsentChangedEvent struct {
	BaseEvent
	ActorID      int64 `json:"actor_id"`
	TargetUserID int64 `json:"target_user_id"`
	Consented    bool  `json:"consented"`
}

func NewConsentChangedEvent(actorID, targetUserID int64, consented bool) *ConsentChangedEvent {
	return &ConsentChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeConsentChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"actor_id":       actorID,
				"target_user_id": targetUserID,
				"consented":      consented,
			},
		},
		ActorID:      actorID,
		TargetUserID: targetUserID,
		Consented:    consented,
	}
}

type DataErasedEvent struct {
	BaseEvent
	ActorID      int64 `json:"actor_id"`
	TargetUserID int64 `json:"target_user_id"`
}

func NewDataErasedEvent(actorID, targetUserID int64) *DataErasedEvent {
	return &DataErasedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDataErased,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"actor_id":       actorID,
				"target_user_id": targetUserID,
			},
		},
		ActorID:      actorID,
		TargetUserID: targetUserID,
	}
}

type RetentionEnforcedEvent struct {
	BaseEvent
	RequestsDeleted  int64 `json:"requests_deleted"`
	ResponsesDeleted int64 `json:"responses_deleted"`
}

func NewRetentionEnforcedEvent(requestsDeleted, responsesDeleted int64) *RetentionEnforcedEvent {
	return &RetentionEnforcedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRetentionEnforced,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"requests_deleted":  requestsDeleted,
				"responses_deleted": responsesDeleted,
			},
		},
		RequestsDeleted:  requestsDeleted,
		ResponsesDeleted: responsesDeleted,
	}
}
