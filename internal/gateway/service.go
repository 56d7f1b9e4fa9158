package gateway

import (
	"context"
	"log/slog"
	"time"

	internal "github.com/frahmantamala/ai-gateway/internal"
	"github.com/frahmantamala/ai-gateway/internal/ai"
	"github.com/frahmantamala/ai-gateway/internal/audit"
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	"github.com/frahmantamala/ai-gateway/internal/core/events"
	"github.com/frahmantamala/ai-gateway/internal/rbac"
)

// Repository persists mediated requests and responses.
type Repository interface {
	SaveRequest(req *request.Request) error
	SaveResponse(resp *request.Response) error
	HistoryForUser(userID int64) ([]*HistoryEntry, error)
}

// ConsentChecker answers whether a user currently consents to AI processing.
type ConsentChecker interface {
	HasValidConsent(userID int64) (bool, error)
}

// PermissionChecker resolves a user's permissions at call time.
type PermissionChecker interface {
	UserHasPermission(userID int64, permissionName string) (bool, error)
}

// Scrubber screens and rewrites request content before external dispatch.
type Scrubber interface {
	Scrub(ctx context.Context, req *request.Request) error
}

// Auditor records the request/response trail.
type Auditor interface {
	LogRequest(req *request.Request)
	LogResponse(userID int64, resp *request.Response)
	Log(userID int64, action audit.Action, details string)
}

// LocalBackend is the on-premise model: a Backend that can also load models
// and run the filter's raw prompts.
type LocalBackend interface {
	ai.Backend
	LoadModel(ctx context.Context, name string) error
}

// Service mediates every AI request through the authentication, consent,
// filtering and permission gates, in that order.
type Service struct {
	repo     Repository
	consent  ConsentChecker
	access   PermissionChecker
	scrubber Scrubber
	auditor  Auditor
	local    LocalBackend
	external ai.ExternalBackend
	eventBus *events.EventBus
	logger   *slog.Logger

	timeout     time.Duration
	filterLocal bool
}

func NewService(
	repo Repository,
	consent ConsentChecker,
	access PermissionChecker,
	scrubber Scrubber,
	auditor Auditor,
	local LocalBackend,
	external ai.ExternalBackend,
	eventBus *events.EventBus,
	timeout time.Duration,
	filterLocal bool,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		consent:     consent,
		access:      access,
		scrubber:    scrubber,
		auditor:     auditor,
		local:       local,
		external:    external,
		eventBus:    eventBus,
		logger:      logger,
		timeout:     timeout,
		filterLocal: filterLocal,
	}
}

// MakeRequest runs one submission through the full pipeline. The returned
// error is reserved for infrastructure failures (storage, permission store);
// every policy outcome is a Result. On the external path content is scrubbed
// BEFORE the permission check, and the request is audited only at its
// terminal outcome, so the audit trail carries the anonymized content.
func (s *Service) MakeRequest(ctx context.Context, userID int64, dto MakeRequestDTO) (*Result, error) {
	if userID <= 0 {
		return &Result{Verdict: VerdictNotAuthenticated, Message: MsgNotAuthenticated}, nil
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := request.New(userID, dto.Content)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeEmptyContent)
	}
	if err := s.repo.SaveRequest(req); err != nil {
		s.logger.Error("failed to persist request", "error", err, "user_id", userID)
		return nil, err
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewRequestSubmittedEvent(req.ID, userID, dto.UseExternalAI))
	}

	consented, err := s.consent.HasValidConsent(userID)
	if err != nil {
		return nil, err
	}
	if !consented {
		return s.deny(ctx, req, VerdictDeniedConsent, MsgNoConsent)
	}

	var backend ai.Backend
	if dto.UseExternalAI {
		if err := s.scrubber.Scrub(ctx, req); err != nil {
			// Raw content must never reach an external provider on a broken
			// scrub, so a filter failure closes the path.
			s.logger.Error("filter failed, refusing external dispatch",
				"error", err, "request_id", req.ID)
			return s.deny(ctx, req, VerdictBackendError, MsgBackendFailure)
		}
		allowed, err := s.access.UserHasPermission(userID, rbac.PermUseExternalAI)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return s.deny(ctx, req, VerdictDeniedPermission, MsgNoExternalPermission)
		}
		backend = s.external
	} else {
		if s.filterLocal {
			if err := s.scrubber.Scrub(ctx, req); err != nil {
				return s.deny(ctx, req, VerdictBackendError, MsgBackendFailure)
			}
		}
		allowed, err := s.access.UserHasPermission(userID, rbac.PermUseIA)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return s.deny(ctx, req, VerdictDeniedPermission, MsgNoLocalPermission)
		}
		backend = s.local
	}

	dispatchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := backend.ProcessRequest(dispatchCtx, req)
	if err != nil {
		s.logger.Error("backend dispatch failed",
			"error", err, "request_id", req.ID, "backend", backend.Name())
		return s.deny(ctx, req, VerdictBackendError, MsgBackendFailure)
	}

	if err := s.repo.SaveResponse(resp); err != nil {
		s.logger.Error("failed to persist response", "error", err, "request_id", req.ID)
		return nil, err
	}
	s.auditor.LogRequest(req)
	s.auditor.LogResponse(userID, resp)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewResponseGeneratedEvent(resp.ID, req.ID, userID, backend.Name()))
	}

	return &Result{Verdict: VerdictCompleted, Response: resp, Message: resp.Content}, nil
}

// deny persists the refusal as an ordinary response so the stored trail shows
// exactly what the user was told. The request is audited here too, after any
// scrub has already rewritten its content.
func (s *Service) deny(ctx context.Context, req *request.Request, verdict Verdict, message string) (*Result, error) {
	resp, err := request.NewResponse(req, message)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveResponse(resp); err != nil {
		s.logger.Error("failed to persist denial response", "error", err, "request_id", req.ID)
		return nil, err
	}
	s.auditor.LogRequest(req)
	s.auditor.LogResponse(req.UserID, resp)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewRequestDeniedEvent(req.ID, req.UserID, message))
	}

	return &Result{Verdict: verdict, Response: resp, Message: message}, nil
}

// History lists the caller's own requests with their responses, newest first.
func (s *Service) History(userID int64) ([]*HistoryEntry, error) {
	if userID <= 0 {
		return nil, internal.ErrNotAuthenticated
	}
	return s.repo.HistoryForUser(userID)
}

// AdminLoadLocalModel switches and probes the local model. CONFIGURE_SYSTEM.
func (s *Service) AdminLoadLocalModel(ctx context.Context, actorID int64, dto LoadModelDTO) error {
	if err := s.requireConfigureSystem(actorID); err != nil {
		return err
	}
	return s.local.LoadModel(ctx, dto.Model)
}

// AdminSetExternalAPIKey rotates the external provider key. CONFIGURE_SYSTEM.
func (s *Service) AdminSetExternalAPIKey(actorID int64, dto SetAPIKeyDTO) error {
	if err := s.requireConfigureSystem(actorID); err != nil {
		return err
	}
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	s.external.SetAPIKey(dto.APIKey)
	s.logger.Info("external API key rotated", "actor_id", actorID, "provider", s.external.Provider())
	return nil
}

func (s *Service) requireConfigureSystem(actorID int64) error {
	if actorID <= 0 {
		return internal.ErrNotAuthenticated
	}
	ok, err := s.access.UserHasPermission(actorID, rbac.PermConfigureSystem)
	if err != nil {
		return err
	}
	if !ok {
		return internal.ErrPermissionDenied
	}
	return nil
}
