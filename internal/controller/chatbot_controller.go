package controller

import (
	"lingochat_backend/internal/service"
	"lingochat_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChatbotController struct {
	ChatbotService *service.ChatbotService
}

func NewChatbotController(chatbotService *service.ChatbotService) *ChatbotController {
	return &ChatbotController{ChatbotService: chatbotService}
}

type ChatRequest struct {
	Prompt string `json:"prompt" example:"How do I say 'good morning' in French?"`
	UserID string `json:"userId,omitempty" example:"6f1c2a7e-1b7d-4a7a-9a55-1f7f3c2a9b10"`
}

// Chat godoc
// @Summary 单轮对话
// @Description 以用户最近的对话作为上下文生成回复；未提供 userId 时使用 token 中的用户，否则记为匿名
// @Tags 聊天
// @Accept  json
// @Produce  json
// @Param   body body ChatRequest true "提问"
// @Success 200 {object} object "success, response"
// @Failure 400 {object} util.Response "缺少 prompt"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /chatbot [post]
func (ctrl *ChatbotController) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request body")
		return
	}

	userID := req.UserID
	if userID == "" {
		if claims := util.GetUserFromContext(c); claims != nil {
			userID = claims.UserID
		}
	}

	reply, err := ctrl.ChatbotService.Chat(c.Request.Context(), req.Prompt, userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"response": reply})
}

// History godoc
// @Summary 对话历史
// @Description 最近的对话（新→旧），默认 10 条，最多 50 条
// @Tags 聊天
// @Produce  json
// @Param   userId path string true "用户ID"
// @Param   limit query int false "条数"
// @Success 200 {object} object "success, conversations"
// @Failure 400 {object} util.Response "参数错误"
// @Router /history/{userId} [get]
func (ctrl *ChatbotController) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			util.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := ctrl.ChatbotService.History(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"conversations": items})
}
