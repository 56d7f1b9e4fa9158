package audit

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
)

// permViewLogs mirrors rbac.PermViewLogs. Declared locally: rbac audits its
// own mutations through this package, so audit must not import rbac back.
const permViewLogs = "VIEW_LOGS"

// Repository persists audit entries and reads them back newest-first.
type Repository interface {
	Append(entry *Entry) error
	ListAll() ([]*Entry, error)
}

// PermissionChecker gates audit log reads on VIEW_LOGS.
type PermissionChecker interface {
	UserHasPermission(userID int64, permissionName string) (bool, error)
}

type Service struct {
	repo   Repository
	access PermissionChecker
	logger *slog.Logger
}

func NewService(repo Repository, access PermissionChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		access: access,
		logger: logger,
	}
}

// Log appends an entry best-effort. Audit writes never fail the operation
// they describe; a storage error is logged and swallowed.
func (s *Service) Log(userID int64, action Action, details string) {
	entry := &Entry{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	if err := s.repo.Append(entry); err != nil {
		s.logger.Error("failed to append audit entry",
			"error", err,
			"user_id", userID,
			"action", string(action),
		)
	}
}

// LogRequest records a submitted request, including its content so the trail
// shows exactly what left the user's hands.
func (s *Service) LogRequest(req *request.Request) {
	s.Log(req.UserID, ActionRequestSubmitted,
		fmt.Sprintf("Request ID: %s, Content: %s", req.ID, req.Content))
}

// LogResponse records a generated response by reference only.
func (s *Service) LogResponse(userID int64, resp *request.Response) {
	s.Log(userID, ActionResponseGenerated,
		fmt.Sprintf("Response ID: %s, RequestID: %s", resp.ID, resp.RequestID))
}

// All returns every audit entry, newest first. Gated on VIEW_LOGS.
func (s *Service) All(viewerID int64) ([]*Entry, error) {
	ok, err := s.access.UserHasPermission(viewerID, permViewLogs)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn("audit log read denied", "viewer_id", viewerID)
		return nil, ErrLogAccessDenied
	}
	return s.repo.ListAll()
}
