package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"care-admin-service/internal/dto"
	"care-admin-service/internal/service"
)

// POST /auth/login — primer paso: credencial phone+password
func (ctl *Controller) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Auth.Login(c.Request.Context(), req.Phone, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		OTPRequired: true,
		Message:     "credencial válida, falta el código OTP",
	})
}

// POST /auth/verify-otp — segundo paso: código fijo de seis dígitos
func (ctl *Controller) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := ctl.Auth.VerifyOTP(req.Phone, req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.VerifyOTPResponse{Token: token})
}
