package service

import (
	"fmt"
	"lingochat_backend/internal/config"

	"github.com/cbroglie/mustache"
)

const (
	defaultPracticeSystemPrompt = "You are Sommer, a patient and cheerful {{{language}}} tutor. " +
		"The learner is practicing {{{language}}} at level {{{level}}}. " +
		"Reply only in {{{language}}}, keep sentences suited to a {{{level}}} learner, " +
		"keep answers short, gently correct mistakes and end with a question that keeps the conversation going."

	defaultPracticeGreeting = "Greet me in {{{language}}} and propose a first conversation topic suited to level {{{level}}}."

	defaultChatSystemPrompt = "You are a nightlife assistant called 'Sommer', 32 years old, cheerful, spontaneous and with a Cali accent. " +
		"Users will ask you what to do in Cali on weekends. Suggest three plans to go out with friends, " +
		"answer briefly, directly and enthusiastically, moderately informal, without profanity or medical advice."
)

// PromptService 渲染各场景的 system 提示词，模板使用 mustache，变量以三重括号原样输出
type PromptService struct {
	practice *mustache.Template
	greeting *mustache.Template
	chat     string
}

func NewPromptService(practiceCfg config.PracticeConfig, chatCfg config.ChatConfig) (*PromptService, error) {
	practiceSrc := practiceCfg.SystemPrompt
	if practiceSrc == "" {
		practiceSrc = defaultPracticeSystemPrompt
	}

	practice, err := mustache.ParseString(practiceSrc)
	if err != nil {
		return nil, fmt.Errorf("parse practice prompt: %w", err)
	}

	greeting, err := mustache.ParseString(defaultPracticeGreeting)
	if err != nil {
		return nil, fmt.Errorf("parse greeting prompt: %w", err)
	}

	chat := chatCfg.SystemPrompt
	if chat == "" {
		chat = defaultChatSystemPrompt
	}

	return &PromptService{practice: practice, greeting: greeting, chat: chat}, nil
}

func practiceVars(language, level string) map[string]string {
	return map[string]string{
		"language": language,
		"level":    level,
	}
}

func (p *PromptService) PracticeSystem(language, level string) (string, error) {
	return p.practice.Render(practiceVars(language, level))
}

func (p *PromptService) PracticeGreeting(language, level string) (string, error) {
	return p.greeting.Render(practiceVars(language, level))
}

func (p *PromptService) ChatSystem() string {
	return p.chat
}
