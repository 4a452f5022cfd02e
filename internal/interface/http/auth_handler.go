package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/internal/interface/middleware"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
	"github.com/oksasatya/academic-bridge/pkg/response"
)

const trustedDeviceCookieTTL = 30 * 24 * time.Hour

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	FullName        string `json:"full_name" binding:"required,tmin=2,max=120"`
	Email           string `json:"email" binding:"required,email"`
	Mobile          string `json:"mobile" binding:"required,mobile"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
	UserType        string `json:"user_type" binding:"required,signuprole"`
	CompanyName     string `json:"company_name" binding:"max=200"`
}

type loginRequest struct {
	EmailOrMobile string `json:"email_or_mobile" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

type otpConfirmRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	TrustDevice bool   `json:"trust_device"`
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type resetInitRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func (h *AuthHandler) setTokens(c *gin.Context, p application.TokenPair) {
	h.Cookies.SetPair(c, p.AccessToken, p.AccessTokenExpiry, p.RefreshToken, p.RefreshTokenExpiry)
}

func sessionBody(u *entity.User, p application.TokenPair) gin.H {
	return gin.H{
		"user":          toUser(u),
		"access_token":  p.AccessToken,
		"refresh_token": p.RefreshToken,
	}
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Mobile:      req.Mobile,
		Password:    req.Password,
		UserType:    entity.UserType(req.UserType),
		CompanyName: req.CompanyName,
	}, metaFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.setTokens(c, res.Tokens)
	body := sessionBody(res.User, res.Tokens)
	if res.VerifyLink != "" {
		body["verify_link"] = res.VerifyLink
	}
	response.Success(c, http.StatusCreated, body, "account created", tokenMeta(res.Tokens))
}

// Login POST /api/login. Answers 202 when a sign-in code was emailed instead.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	deviceID, _ := c.Cookie(helpers.DeviceCookie)
	res, err := h.Svc.Login(c.Request.Context(), req.EmailOrMobile, req.Password, deviceID, metaFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if res.OTPRequired {
		response.Success(c, http.StatusAccepted, gin.H{"otp_required": true, "email": res.User.Email}, "verification code sent", nil)
		return
	}
	h.setTokens(c, res.Tokens)
	response.Success(c, http.StatusOK, sessionBody(res.User, res.Tokens), "login successful", tokenMeta(res.Tokens))
}

// LoginOTPConfirm POST /api/login/otp/confirm
func (h *AuthHandler) LoginOTPConfirm(c *gin.Context) {
	var req otpConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	deviceID, _ := c.Cookie(helpers.DeviceCookie)
	res, trusted, err := h.Svc.ConfirmOTP(c.Request.Context(), req.Email, req.Code, req.TrustDevice, deviceID, metaFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if trusted != "" {
		h.Cookies.SetDeviceID(c, trusted, time.Now().Add(trustedDeviceCookieTTL))
	}
	h.setTokens(c, res.Tokens)
	response.Success(c, http.StatusOK, sessionBody(res.User, res.Tokens), "login successful", tokenMeta(res.Tokens))
}

// Refresh POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.setTokens(c, pair)
	response.Success(c, http.StatusOK, gin.H{"refreshed": true, "access_token": pair.AccessToken}, "token refreshed", tokenMeta(pair))
}

// Logout POST /api/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserID), metaFrom(c)); err != nil {
		helpers.LogWarn(h.Logger, "revoke session failed", err, nil)
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// VerifyInit POST /api/auth/verify/init (auth required)
func (h *AuthHandler) VerifyInit(c *gin.Context) {
	link, already, err := h.Svc.VerifyInit(c.Request.Context(), c.GetString(middleware.CtxUserID), metaFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if already {
		response.Success(c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
		return
	}
	body := gin.H{"sent": true}
	if link != "" {
		body["verify_link"] = link
	}
	response.Success(c, http.StatusOK, body, "verification link sent", nil)
}

// VerifyConfirm POST /api/auth/verify/confirm {token}
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Svc.VerifyConfirm(c.Request.Context(), req.Token, metaFrom(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}

// ResetInit POST /api/auth/reset/init {email}. The answer is the same
// whether or not the address is registered.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req resetInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	link, err := h.Svc.ResetInit(c.Request.Context(), req.Email, metaFrom(c))
	if err != nil {
		helpers.LogError(h.Logger, "reset init failed", err, nil)
	}
	body := gin.H{"sent": true}
	if link != "" {
		body["reset_link"] = link
	}
	response.Success(c, http.StatusOK, body, "if the email is registered a reset link was sent", nil)
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Svc.ResetConfirm(c.Request.Context(), req.Token, req.NewPassword, metaFrom(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
