package model

import "time"

// AttachmentMeta is what survives of an attachment after a send: the bytes are discarded.
type AttachmentMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// EmailLog is the immutable audit record of one successful broadcast.
type EmailLog struct {
	ID int `json:"id"`
	// Recipients is the selector string the operator supplied, not the resolved addresses.
	Recipients  string           `json:"recipients"`
	Subject     string           `json:"subject"`
	Message     string           `json:"message"`
	ClassName   *string          `json:"class"`
	SentBy      int              `json:"sentBy"`
	Attachments []AttachmentMeta `json:"attachments"`
	SentAt      time.Time        `json:"sentAt"`
}

// EmailLogEntry is an audit record joined with its sender.
type EmailLogEntry struct {
	EmailLog
	User UserProfile `json:"user"`
}

// EmailLogPage is one page of the audit log plus the total number of matching rows.
type EmailLogPage struct {
	Count int             `json:"count"`
	Logs  []EmailLogEntry `json:"logs"`
}

// LogQuery is a normalized page request against the audit log.
type LogQuery struct {
	Page     int
	PageSize int
	Search   string
}

// Offset returns the number of rows to skip.
func (q LogQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// RecipientPreview is the response of the recipients preview endpoint.
type RecipientPreview struct {
	Groups  []string `json:"groups"`
	Classes []Class  `json:"classes"`
	Emails  []string `json:"emails"`
}
