package handler

import (
	"net/http"

	"catalogo/internal/app/catalog/command"
	"catalogo/internal/app/catalog/entity"
	"catalogo/internal/app/catalog/util"
	"catalogo/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// AuthHandler выпускает JWT для единственного сконфигурированного аккаунта
// Пользовательской базы у сервиса нет, учетка приходит из конфига
type AuthHandler struct {
	jwtManager   *util.JWTManager
	username     string
	passwordHash string
}

func NewAuthHandler(jwtManager *util.JWTManager, username, passwordHash string) *AuthHandler {
	return &AuthHandler{
		jwtManager:   jwtManager,
		username:     username,
		passwordHash: passwordHash,
	}
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c)
		return
	}

	if req.Username != h.username || !util.CheckPassword(req.Password, h.passwordHash) {
		metrics.RecordLogin("failure")
		c.JSON(http.StatusUnauthorized, command.Notification{
			Key:     "user",
			Message: "invalid username or password",
		})
		return
	}

	token, err := h.jwtManager.Generate(req.Username)
	if err != nil {
		metrics.RecordLogin("failure")
		respondInternalError(c, "Failed to generate token")
		return
	}

	metrics.RecordLogin("success")
	c.JSON(http.StatusOK, entity.LoginResponse{Token: token})
}
