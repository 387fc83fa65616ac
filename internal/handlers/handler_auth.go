package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles customer registration and login.
type authHandler struct {
	provisioningService portssvc.ProvisioningSvc
	authService         portssvc.AuthSvc
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.RouterGroup, provisioningService portssvc.ProvisioningSvc, authService portssvc.AuthSvc) {
	h := &authHandler{
		provisioningService: provisioningService,
		authService:         authService,
	}

	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

// register godoc
// @Summary Register a customer
// @Description Creates a customer with a login and opens a zero-balance savings and chequing account.
// @Tags auth
// @Accept json
// @Produce json
// @Param customer body dto.RegisterCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email, phone or username already registered"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	customer, accounts, err := h.provisioningService.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "register customer")
		return
	}

	logger.Info("Customer registered", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer, accounts))
}

// login godoc
// @Summary Customer login
// @Description Authenticates a customer and returns a JWT access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "log in")
		return
	}
	c.JSON(http.StatusOK, resp)
}
