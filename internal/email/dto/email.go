package dto

import (
	emaildomain "postbox-backend/internal/email/domain"
)

type SendEmailRequest struct {
	To      string `json:"to" binding:"required"`
	Cc      string `json:"cc"`
	Bcc     string `json:"bcc"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

type ThreadListResponse struct {
	Threads    []emaildomain.Thread `json:"threads"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

type SyncStepResponse struct {
	Progressed bool `json:"progressed"`
}

type SyncAllResponse struct {
	Updated []string `json:"updated"`
}
