package controller

import (
	"clinplace_backend/internal/service"
	"clinplace_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthSvc *service.AuthService
}

func NewAuthController(authSvc *service.AuthService) *AuthController {
	return &AuthController{AuthSvc: authSvc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body: %v", err))
		return
	}

	token, user, err := ctrl.AuthSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
