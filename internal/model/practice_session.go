package model

import (
	"time"
)

type MessageRole string

const (
	RoleUserMessage      MessageRole = "user"
	RoleAssistantMessage MessageRole = "assistant"
	RoleSystemMessage    MessageRole = "system"
)

// ValidForSession system 角色只用于拼接请求，不落库
func (r MessageRole) ValidForSession() bool {
	return r == RoleUserMessage || r == RoleAssistantMessage
}

// PracticeSession 一次限定语言/级别的练习会话；EndTime 非空即为已结束
// swagger:model PracticeSession
type PracticeSession struct {
	UUIDBase
	UserID       string            `gorm:"type:varchar(64);index:idx_practice_user_start;not null" json:"userId"`
	Language     string            `gorm:"size:50;index;not null" json:"language"`
	Level        string            `gorm:"size:50;not null" json:"level"`
	StartTime    time.Time         `gorm:"index:idx_practice_user_start;not null" json:"startTime"`
	EndTime      *time.Time        `json:"endTime,omitempty"`
	MessageCount int               `gorm:"not null;default:0" json:"messageCount"`
	Messages     []PracticeMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}

func (s *PracticeSession) Closed() bool {
	return s.EndTime != nil
}

// PracticeMessage Seq 从 1 开始，(session_id, seq) 唯一
type PracticeMessage struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string      `gorm:"type:varchar(36);uniqueIndex:idx_session_seq;not null" json:"-"`
	Seq       int         `gorm:"uniqueIndex:idx_session_seq;not null" json:"seq"`
	Role      MessageRole `gorm:"size:20;not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time   `gorm:"not null" json:"timestamp"`
}

func (PracticeMessage) TableName() string {
	return "practice_messages"
}

// PracticeSummary 会话摘要，纯读取计算得出
type PracticeSummary struct {
	SessionID       string   `json:"sessionId"`
	Language        string   `json:"language"`
	Level           string   `json:"level"`
	DurationMinutes int      `json:"durationMinutes"`
	TotalMessages   int      `json:"totalMessages"`
	RecentTopics    []string `json:"recentTopics"`
	Closed          bool     `json:"closed"`
}
