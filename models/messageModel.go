package models

import (
	"fmt"
	"time"
)

// ChatMessage model. Seq is a per-chat monotonic sequence assigned at persist
// time; clients order by it across reconnects instead of arrival time.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ChatID    string    `gorm:"column:chat_id;not null;uniqueIndex:idx_chat_seq,priority:1" json:"chat_id"`
	Seq       int64     `gorm:"column:seq;not null;uniqueIndex:idx_chat_seq,priority:2" json:"seq"`
	SenderID  int64     `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;column:content;not null" json:"content"`
	ImageURL  string    `gorm:"column:image_url" json:"image_url,omitempty"`
	SentAt    time.Time `gorm:"column:sent_at;autoCreateTime" json:"sent_at"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}

// ChatID builds the canonical chat identifier for an appointment's
// patient-doctor conversation.
func ChatID(appointmentCode string) string {
	return fmt.Sprintf("appointment:%s", appointmentCode)
}
