package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/benhaham/findscooter/internal/services"
	"github.com/benhaham/findscooter/pkg/errors"
	"github.com/benhaham/findscooter/pkg/logger"
	"github.com/benhaham/findscooter/pkg/metrics"
	"github.com/benhaham/findscooter/pkg/response"
)

// AccountHandler exposes the account workflows over HTTP.
type AccountHandler struct {
	service *services.AccountService
	log     *zap.Logger
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{
		service: service,
		log:     logger.WithModule("handlers.accounts"),
	}
}

type signupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	// Code accepts "1234" and 1234 alike; both are compared numerically.
	Code json.Number `json:"code" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateAccountRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// POST /api/account/signup
func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	account, err := h.service.Signup(c.Request.Context(), services.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		metrics.Signups.WithLabelValues(signupResult(err)).Inc()
		respondError(c, h.log, err)
		return
	}

	metrics.Signups.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, account)
}

// POST /api/account/verify
func (h *AccountHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	code, err := strconv.Atoi(strings.TrimSpace(req.Code.String()))
	if err != nil {
		response.Error(c, errors.NewBadRequest("code must be numeric"))
		return
	}

	if err := h.service.Verify(c.Request.Context(), req.Email, code); err != nil {
		metrics.Verifications.WithLabelValues(verifyResult(err)).Inc()
		respondError(c, h.log, err)
		return
	}

	metrics.Verifications.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{"message": "account verified"})
}

// POST /api/account/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, account, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		respondError(c, h.log, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         account.ID,
			"first_name": account.FirstName,
			"last_name":  account.LastName,
			"email":      account.Email,
		},
	})
}

// GET /api/account/users
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, accounts)
}

// PUT /api/account/updateAccount/:id
func (h *AccountHandler) Update(c *gin.Context) {
	var req updateAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}

	account, err := h.service.Update(c.Request.Context(), c.Param("id"), services.UpdateAccountInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, account)
}

// DELETE /api/account/deleteAccount/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	account, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, account)
}

func signupResult(err error) string {
	if errors.FromError(err) == errors.ErrDuplicateEmail {
		return "duplicate"
	}
	return "error"
}

func verifyResult(err error) string {
	switch errors.FromError(err) {
	case errors.ErrCodeMismatch:
		return "mismatch"
	case errors.ErrCodeExpired:
		return "expired"
	default:
		return "error"
	}
}
