package controller

import (
	"lingochat_backend/internal/service"
	"lingochat_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PracticeController 练习会话的 HTTP 接口
type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{PracticeService: practiceService}
}

// StartPracticeRequest 开始练习；idioma/nivel 为旧版客户端字段
type StartPracticeRequest struct {
	UserID   string `json:"userId" example:"6f1c2a7e-1b7d-4a7a-9a55-1f7f3c2a9b10"`
	Language string `json:"language" example:"fr"`
	Level    string `json:"level" example:"B1"`
	Idioma   string `json:"idioma,omitempty" swaggerignore:"true"`
	Nivel    string `json:"nivel,omitempty" swaggerignore:"true"`
	Greeting bool   `json:"greeting" example:"false"`
}

func (r *StartPracticeRequest) normalize() {
	if r.Language == "" {
		r.Language = r.Idioma
	}
	if r.Level == "" {
		r.Level = r.Nivel
	}
}

type PracticeMessageRequest struct {
	SessionID string `json:"sessionId" example:"0b6f5f0e-7e0e-4bb7-8a55-4a3f4f7a2c11"`
	Role      string `json:"role" example:"user" enums:"user,assistant"`
	Content   string `json:"content" example:"Bonjour"`
	AutoReply *bool  `json:"autoReply,omitempty" example:"true"`
}

type EndPracticeRequest struct {
	SessionID string `json:"sessionId" example:"0b6f5f0e-7e0e-4bb7-8a55-4a3f4f7a2c11"`
}

// StartPractice godoc
// @Summary 开始练习
// @Description 创建一个新的练习会话，可选生成开场白
// @Tags 练习
// @Accept  json
// @Produce  json
// @Param   body body StartPracticeRequest true "练习参数"
// @Success 201 {object} object "success, sessionId, initialResponse"
// @Failure 400 {object} util.Response "缺少参数"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /practice/start [post]
func (ctrl *PracticeController) StartPractice(c *gin.Context) {
	var req StartPracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request body")
		return
	}
	req.normalize()

	result, err := ctrl.PracticeService.Start(c.Request.Context(), service.StartPracticeInput{
		UserID:   req.UserID,
		Language: req.Language,
		Level:    req.Level,
		Greeting: req.Greeting,
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}

	payload := gin.H{
		"message":   "Practice session started",
		"sessionId": result.SessionID,
	}
	if result.Greeting != "" {
		payload["initialResponse"] = result.Greeting
	}
	util.Created(c, payload)
}

// SendMessage godoc
// @Summary 发送练习消息
// @Description 追加一条消息；user 消息默认自动生成助手回复
// @Tags 练习
// @Accept  json
// @Produce  json
// @Param   body body PracticeMessageRequest true "消息"
// @Success 200 {object} object "success, userMessage, botResponse, messages"
// @Failure 400 {object} util.Response "缺少参数或会话已结束"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /practice/message [post]
func (ctrl *PracticeController) SendMessage(c *gin.Context) {
	var req PracticeMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request body")
		return
	}

	result, err := ctrl.PracticeService.AppendMessage(c.Request.Context(), service.AppendMessageInput{
		SessionID: req.SessionID,
		Role:      req.Role,
		Content:   req.Content,
		AutoReply: req.AutoReply,
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.Success(c, gin.H{
		"userMessage": result.Stored.Content,
		"botResponse": result.BotResponse,
		"messages":    result.Messages,
	})
}

// EndPractice godoc
// @Summary 结束练习
// @Description 写入结束时间并返回会话摘要；重复结束不会改变结束时间
// @Tags 练习
// @Accept  json
// @Produce  json
// @Param   body body EndPracticeRequest true "会话ID"
// @Success 200 {object} object "success, message, summary"
// @Failure 400 {object} util.Response "缺少参数"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /practice/end [post]
func (ctrl *PracticeController) EndPractice(c *gin.Context) {
	var req EndPracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request body")
		return
	}

	summary, err := ctrl.PracticeService.End(c.Request.Context(), req.SessionID)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.Success(c, gin.H{
		"message": "Practice session ended",
		"summary": summary,
	})
}

// GetSummary godoc
// @Summary 练习摘要
// @Tags 练习
// @Produce  json
// @Param   sessionId path string true "会话ID"
// @Success 200 {object} object "success, summary"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /practice/summary/{sessionId} [get]
func (ctrl *PracticeController) GetSummary(c *gin.Context) {
	summary, err := ctrl.PracticeService.Summary(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"summary": summary})
}

// ListByUser godoc
// @Summary 用户的练习列表
// @Description 按开始时间倒序
// @Tags 练习
// @Produce  json
// @Param   userId path string true "用户ID"
// @Success 200 {array} model.PracticeSession
// @Router /practice/{userId} [get]
func (ctrl *PracticeController) ListByUser(c *gin.Context) {
	sessions, err := ctrl.PracticeService.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// DeletePractice godoc
// @Summary 删除练习
// @Tags 练习
// @Produce  json
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "会话不存在"
// @Router /practice/{id} [delete]
func (ctrl *PracticeController) DeletePractice(c *gin.Context) {
	if err := ctrl.PracticeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "Practice session deleted"})
}
