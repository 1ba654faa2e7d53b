package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/usersapi/users-api/internal/dynamo"
	"github.com/usersapi/users-api/internal/server"
)

// UserHandlers provides HTTP handlers for user operations
type UserHandlers struct {
	service UserService
	logger  *zap.Logger
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(service UserService, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandlers) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:userId", h.GetUser)
		users.PUT("/:userId", h.UpdateUser)
		users.DELETE("/:userId", h.DeleteUser)
	}
}

func (h *UserHandlers) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandlers) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MessageInvalidBody})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Failed to create user")
		return
	}

	server.RequestLogger(c, h.logger).Info("User stored", zap.String("user_id", user.UserID))
	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) UpdateUser(c *gin.Context) {
	user, err := h.service.UpdateUser(c.Request.Context(), c.Param("userId"), c.ShouldBindJSON)
	if err != nil {
		h.fail(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	user, err := h.service.DeleteUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err, "Failed to delete user")
		return
	}

	server.RequestLogger(c, h.logger).Info("User deleted", zap.String("user_id", user.UserID))
	c.JSON(http.StatusOK, user)
}

// fail maps service errors onto status codes. Anything that is not a
// UserError is a store fault and is logged before answering 500.
func (h *UserHandlers) fail(c *gin.Context, err error, message string) {
	switch {
	case IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": MessageUserNotFound})
	case IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": MessageMissingFields})
	case IsInvalidBody(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": MessageInvalidBody})
	default:
		fields := []zap.Field{
			zap.String("path", c.FullPath()),
			zap.String("user_id", c.Param("userId")),
			zap.Error(err),
		}
		if code, ok := dynamo.ErrorCode(err); ok {
			fields = append(fields,
				zap.String("aws_error_code", code),
				zap.Bool("throttled", dynamo.IsThrottled(err)))
		}
		server.RequestLogger(c, h.logger).Error(message, fields...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
