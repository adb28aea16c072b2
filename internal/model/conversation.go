package model

import (
	"time"
)

const AnonymousUserID = "anonymous"

// ConversationEntry 通用聊天的一问一答，创建后不再修改
type ConversationEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	UserID    string    `gorm:"type:varchar(64);index:idx_conv_user_created;not null;default:'anonymous'" json:"userId"`
	CreatedAt time.Time `gorm:"index:idx_conv_user_created" json:"createdAt"`
}

func (ConversationEntry) TableName() string {
	return "conversation_entries"
}

// ConversationHistoryItem 历史列表中的精简条目
type ConversationHistoryItem struct {
	Prompt    string    `json:"prompt"`
	Summary   string    `json:"summary"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}
