package request

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Request is a single query submission on its way to an AI backend. Content is
// mutable because the filter stage may rewrite it in place before external
// dispatch; it can never be set to an empty string.
type Request struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null"`
	Content   string    `json:"content" gorm:"column:content;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Request) TableName() string {
	return "requests"
}

// Response pairs 1:1 with the Request that produced it. Denials are stored as
// ordinary responses whose content carries the denial message.
type Response struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	RequestID string    `json:"request_id" gorm:"column:request_id;not null"`
	Content   string    `json:"content" gorm:"column:content;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Response) TableName() string {
	return "responses"
}

var (
	ErrMissingUser    = errors.New("a request requires a user")
	ErrEmptyContent   = errors.New("a request cannot be empty")
	ErrMissingRequest = errors.New("a response requires a request")
	ErrEmptyResponse  = errors.New("a response cannot be empty")
)

// New constructs a Request, failing immediately on a missing user or empty
// content. IDs are generated here, before persistence.
func New(userID int64, content string) (*Request, error) {
	if userID <= 0 {
		return nil, ErrMissingUser
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	return &Request{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

// SetContent replaces the request content (anonymization rewrite). An empty
// rewrite is rejected so a scrubbed request stays dispatchable.
func (r *Request) SetContent(content string) error {
	if content == "" {
		return ErrEmptyContent
	}
	r.Content = content
	return nil
}

// NewResponse constructs a Response bound to req. A response can neither be
// empty nor exist without a request.
func NewResponse(req *Request, content string) (*Response, error) {
	if req == nil {
		return nil, ErrMissingRequest
	}
	if content == "" {
		return nil, ErrEmptyResponse
	}
	return &Response{
		ID:        uuid.New().String(),
		RequestID: req.ID,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}
