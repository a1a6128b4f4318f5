package api

import (
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/account"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service account.AccountUseCase
}

func NewAccountHandler(service account.AccountUseCase) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterAuth mounts the public register/login endpoints.
func (h *AccountHandler) RegisterAuth(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
}

func (h *AccountHandler) RegisterUsers(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/me", auth, h.me)
	router.PUT("/me", auth, h.updateMe)
	router.GET("", auth, AdminOnly(), h.list)
	router.GET("/:id", auth, AdminOnly(), h.get)
	router.PUT("/:id/role", auth, AdminOnly(), h.setRole)
	router.DELETE("/:id", auth, AdminOnly(), h.delete)
}

type registerResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (h *AccountHandler) register(c *gin.Context) {
	var req account.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, registerResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
}

func (h *AccountHandler) login(c *gin.Context) {
	var req account.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AccountHandler) me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) updateMe(c *gin.Context) {
	var req account.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) list(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AccountHandler) get(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type setRoleRequest struct {
	Role domain.Role `json:"role"`
}

func (h *AccountHandler) setRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.service.SetRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated", "uid": c.Param("id"), "role": req.Role})
}

func (h *AccountHandler) delete(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
