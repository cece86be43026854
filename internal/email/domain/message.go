package domain

import "time"

// Address is a single parsed recipient or sender.
type Address struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HeaderLine preserves one raw header field in its original order and casing,
// so reply/forward quoting can reproduce the message faithfully.
type HeaderLine struct {
	Key  string `json:"key"`
	Line string `json:"line"`
}

// Thread is a server-grouped set of related messages. The ID is assigned by
// the remote mailbox and is stable across syncs.
type Thread struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"index;not null"`
	Snippet  string    `json:"snippet"`
	Messages []Message `json:"messages" gorm:"foreignKey:ThreadID"`
}

// Message is one synced mail message. The HTML body lives in object storage;
// HTMLBodyLink holds a signed URL pointing at it, never the body itself.
type Message struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	ThreadID     string       `json:"thread_id" gorm:"index;not null"`
	EmailRawID   string       `json:"email_raw_id" gorm:"index"` // Message-ID header
	Subject      string       `json:"subject"`
	Snippet      string       `json:"snippet"`
	PlainText    string       `json:"plain_text"`
	HTMLBodyLink string       `json:"html_body_link"`
	Headers      []HeaderLine `json:"headers" gorm:"type:json;serializer:json"`
	Date         time.Time    `json:"date"`
	From         []Address    `json:"from" gorm:"type:json;serializer:json"`
	To           []Address    `json:"to" gorm:"type:json;serializer:json"`
	Cc           []Address    `json:"cc" gorm:"type:json;serializer:json"`
	Bcc          []Address    `json:"bcc" gorm:"type:json;serializer:json"`
	ReplyTo      []Address    `json:"reply_to" gorm:"type:json;serializer:json"`
	InReplyTo    *string      `json:"in_reply_to,omitempty"`
	Priority     *string      `json:"priority,omitempty"`
}
