package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/ai-gateway/internal/audit"
	"github.com/frahmantamala/ai-gateway/internal/core/events"
	"github.com/frahmantamala/ai-gateway/internal/rbac"
)

// Repository is the compliance data access surface. Retention and erasure
// deletes cover requests, responses and consents only; the audit trail is
// explicitly out of reach.
type Repository interface {
	GetConsent(userID int64) (*Consent, error)
	UpsertConsent(userID int64, granted bool) error
	DeleteConsent(userID int64) error

	DeleteResponsesOlderThan(cutoff time.Time) (int64, error)
	DeleteRequestsOlderThan(cutoff time.Time) (int64, error)

	DeleteResponsesForUser(userID int64) (int64, error)
	DeleteRequestsForUser(userID int64) (int64, error)
}

// PermissionChecker gates administrative compliance operations on
// MANAGE_COMPLIANCE.
type PermissionChecker interface {
	UserHasPermission(userID int64, permissionName string) (bool, error)
}

// Auditor appends audit entries for consent changes, erasure and retention.
type Auditor interface {
	Log(userID int64, action audit.Action, details string)
}

type Service struct {
	repo      Repository
	access    PermissionChecker
	auditor   Auditor
	eventBus  *events.EventBus
	retention time.Duration
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	access PermissionChecker,
	auditor Auditor,
	eventBus *events.EventBus,
	retention time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		access:    access,
		auditor:   auditor,
		eventBus:  eventBus,
		retention: retention,
		logger:    logger,
	}
}

// HasValidConsent reports whether the user currently consents to AI
// processing. No consent record means no consent. A storage error propagates
// so callers fail closed instead of treating the user as consenting.
func (s *Service) HasValidConsent(userID int64) (bool, error) {
	consent, err := s.repo.GetConsent(userID)
	if err != nil {
		return false, err
	}
	if consent == nil {
		return false, nil
	}
	return consent.Granted, nil
}

// SetConsent records a consent decision. A user may always set their own
// consent; changing someone else's requires MANAGE_COMPLIANCE. The change
// takes effect on the next request, there is no caching to invalidate.
func (s *Service) SetConsent(ctx context.Context, actorID int64, dto SetConsentDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if actorID != dto.UserID {
		ok, err := s.access.UserHasPermission(actorID, rbac.PermManageCompliance)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Warn("consent change denied",
				"actor_id", actorID, "target_user_id", dto.UserID)
			return ErrComplianceDenied
		}
	}

	if err := s.repo.UpsertConsent(dto.UserID, dto.Granted); err != nil {
		s.logger.Error("failed to persist consent",
			"error", err, "user_id", dto.UserID)
		return err
	}

	s.auditor.Log(actorID, audit.ActionSetConsent,
		fmt.Sprintf("Set consent for user %d to %t", dto.UserID, dto.Granted))

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewConsentChangedEvent(actorID, dto.UserID, dto.Granted))
	}
	return nil
}

// EnforceDataRetention removes requests and responses older than the
// configured retention window. Responses go first so a failure between the
// two deletes never orphans a response. Idempotent: a second sweep over the
// same window deletes nothing.
func (s *Service) EnforceDataRetention(ctx context.Context) (*RetentionReport, error) {
	cutoff := time.Now().Add(-s.retention)

	responses, err := s.repo.DeleteResponsesOlderThan(cutoff)
	if err != nil {
		return nil, err
	}
	requests, err := s.repo.DeleteRequestsOlderThan(cutoff)
	if err != nil {
		return nil, err
	}

	report := &RetentionReport{
		RequestsDeleted:  requests,
		ResponsesDeleted: responses,
	}

	if requests > 0 || responses > 0 {
		s.logger.Info("retention sweep removed records",
			"requests_deleted", requests,
			"responses_deleted", responses,
			"cutoff", cutoff)
		if s.eventBus != nil {
			s.eventBus.Publish(ctx, events.NewRetentionEnforcedEvent(requests, responses))
		}
	}
	return report, nil
}

// EnforceRetentionNow is the operator-triggered sweep. Unlike the scheduled
// sweep it is permission-gated and audited.
func (s *Service) EnforceRetentionNow(ctx context.Context, actorID int64) (*RetentionReport, error) {
	ok, err := s.access.UserHasPermission(actorID, rbac.PermManageCompliance)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrComplianceDenied
	}

	report, err := s.EnforceDataRetention(ctx)
	if err != nil {
		return nil, err
	}

	s.auditor.Log(actorID, audit.ActionRetentionEnforced,
		fmt.Sprintf("Retention sweep deleted %d requests and %d responses",
			report.RequestsDeleted, report.ResponsesDeleted))
	return report, nil
}

// EraseUserData removes everything the gateway holds for one user: requests,
// responses and the consent record. The audit trail survives, including the
// entry this operation itself appends. Always audited, even when nothing was
// found to delete.
func (s *Service) EraseUserData(ctx context.Context, actorID int64, dto EraseUserDataDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	ok, err := s.access.UserHasPermission(actorID, rbac.PermManageCompliance)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("erasure denied",
			"actor_id", actorID, "target_user_id", dto.UserID)
		return ErrComplianceDenied
	}

	responses, err := s.repo.DeleteResponsesForUser(dto.UserID)
	if err != nil {
		return err
	}
	requests, err := s.repo.DeleteRequestsForUser(dto.UserID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteConsent(dto.UserID); err != nil {
		return err
	}

	s.auditor.Log(actorID, audit.ActionEraseUserData,
		fmt.Sprintf("Erased data for user %d: %d requests, %d responses",
			dto.UserID, requests, responses))

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewDataErasedEvent(actorID, dto.UserID))
	}
	return nil
}

// ConsentFor returns the stored consent record, or nil when the user has
// never recorded a decision.
func (s *Service) ConsentFor(userID int64) (*Consent, error) {
	return s.repo.GetConsent(userID)
}
