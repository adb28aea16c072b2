package model

import "time"

type LanguageCount struct {
	Language string `json:"language"`
	Total    int64  `json:"total"`
}

type DailyCount struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

type SessionBrief struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Language  string     `json:"language"`
	Level     string     `json:"level"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

type DashboardOverview struct {
	TotalUsers         int64           `json:"totalUsers"`
	TotalConversations int64           `json:"totalConversations"`
	TotalPractices     int64           `json:"totalPractices"`
	PracticesByLang    []LanguageCount `json:"practicesByLanguage"`
	LatestPractices    []SessionBrief  `json:"latestPractices"`
}
