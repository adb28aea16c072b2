package controller

import (
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/service"
	"lingochat_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	AuthService   *service.AuthService
	DigestService *service.DigestService
}

func NewAccountController(authService *service.AuthService, digestService *service.DigestService) *AccountController {
	return &AccountController{
		AuthService:   authService,
		DigestService: digestService,
	}
}

// LoginRequest correo/contrasena 为旧版客户端字段
type LoginRequest struct {
	Email      string `json:"email" example:"ana@example.com"`
	Password   string `json:"password" example:"secret123"`
	Correo     string `json:"correo,omitempty" swaggerignore:"true"`
	Contrasena string `json:"contrasena,omitempty" swaggerignore:"true"`
}

// CreateUserRequest nombre/correo/contrasena/rol 为旧版客户端字段
type CreateUserRequest struct {
	Name       string `json:"name" example:"Ana"`
	Email      string `json:"email" example:"ana@example.com"`
	Password   string `json:"password" example:"secret123"`
	Role       string `json:"role,omitempty" example:"user" enums:"user,admin"`
	Nombre     string `json:"nombre,omitempty" swaggerignore:"true"`
	Correo     string `json:"correo,omitempty" swaggerignore:"true"`
	Contrasena string `json:"contrasena,omitempty" swaggerignore:"true"`
	Rol        string `json:"rol,omitempty" swaggerignore:"true"`
}

type LogoutRequest struct {
	UserID string `json:"userId" example:"6f1c2a7e-1b7d-4a7a-9a55-1f7f3c2a9b10"`
}

func isAdmin(ctx *gin.Context) bool {
	claims := util.GetUserFromContext(ctx)
	return claims != nil && claims.Role == model.RoleAdmin
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Login godoc
// @Summary 用户登录
// @Description 邮箱 + 密码登录，返回用户信息与 JWT
// @Tags 账户
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭证"
// @Success 200 {object} object "success, user, token"
// @Failure 400 {object} util.Response "参数缺失或凭证错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /login [post]
func (c *AccountController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	user, token, err := c.AuthService.Login(ctx.Request.Context(),
		firstNonEmpty(req.Email, req.Correo),
		firstNonEmpty(req.Password, req.Contrasena),
	)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"user":  user.Public(),
		"token": token,
	})
}

// CreateUser godoc
// @Summary 创建账户
// @Description 公开注册一律为普通用户，只有携带管理员 token 时 role 才生效
// @Tags 账户
// @Accept  json
// @Produce  json
// @Param   body body CreateUserRequest true "账户信息"
// @Success 201 {object} object "success, message, usuario"
// @Failure 400 {object} util.Response "参数缺失或邮箱已注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /usuarios [post]
func (c *AccountController) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		Name:      firstNonEmpty(req.Name, req.Nombre),
		Email:     firstNonEmpty(req.Email, req.Correo),
		Password:  firstNonEmpty(req.Password, req.Contrasena),
		Role:      firstNonEmpty(req.Role, req.Rol),
		GrantRole: isAdmin(ctx),
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"message": "User created",
		"usuario": user,
	})
}

// ListUsers godoc
// @Summary 账户列表
// @Tags 账户
// @Produce  json
// @Success 200 {array} model.User
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /usuarios [get]
func (c *AccountController) ListUsers(ctx *gin.Context) {
	users, err := c.AuthService.List(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	ctx.JSON(http.StatusOK, users)
}

// Logout godoc
// @Summary 登出
// @Description 结束当天并尝试发送当日对话摘要邮件；邮件失败不影响登出
// @Tags 账户
// @Accept  json
// @Produce  json
// @Param   body body LogoutRequest true "用户ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "缺少 userId"
// @Router /logout [post]
func (c *AccountController) Logout(ctx *gin.Context) {
	var req LogoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	sent, err := c.DigestService.Logout(ctx.Request.Context(), req.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	message := "Session closed (no summary sent)"
	if sent {
		message = "Session closed and summary sent by email"
	}
	util.Success(ctx, gin.H{"message": message})
}
