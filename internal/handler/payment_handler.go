package handler

import (
	"io"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	authService    service.AuthService
}

func NewPaymentHandler(paymentService service.PaymentService, authService service.AuthService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, authService: authService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payment := router.Group("/api/payment", middleware.AuthRequired(h.authService))
	{
		payment.GET("/vip/plans", h.ListPlans)
		payment.POST("/vip/order", h.CreateVipOrder)
		payment.POST("/vip/verify", h.VerifyPayment)
	}

	// The provider calls this endpoint; signature, not bearer token, is the
	// authentication.
	router.POST("/api/webhook/razorpay", h.HandleWebhook)
}

// ListPlans returns the available VIP plans and prices
// @Summary      List VIP plans
// @Tags         payment
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.PlanInfo}
// @Router       /api/payment/vip/plans [get]
func (h *PaymentHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.paymentService.Plans()))
}

// CreateVipOrder opens a provider order for a VIP plan
// @Summary      Create VIP order
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateVipOrderRequest  true  "Order Payload"
// @Success      201      {object}  response.Response{data=service.VipOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/payment/vip/order [post]
func (h *PaymentHandler) CreateVipOrder(c *gin.Context) {
	var req service.CreateVipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	order, err := h.paymentService.CreateVipOrder(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// VerifyPayment confirms the checkout signature for the client
// @Summary      Verify checkout signature
// @Description  Confirms the client-side checkout signature so the app can show success immediately. VIP is granted only by the provider webhook.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.VerifyPaymentRequest  true  "Verify Payload"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/payment/vip/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req service.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.paymentService.VerifyPayment(c.Request.Context(), req); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"verified": true}))
}

// HandleWebhook processes provider payment events
// @Summary      Razorpay webhook
// @Description  Verifies the webhook signature over the raw body and grants VIP on captured payments. Any signature mismatch is rejected with no partial processing.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        X-Razorpay-Signature  header    string  true  "Webhook signature"
// @Success      200                   {object}  response.Response
// @Failure      400                   {object}  response.Response
// @Router       /api/webhook/razorpay [post]
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read body"))
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.paymentService.HandleWebhook(c.Request.Context(), rawBody, signature); err != nil {
		// always a hard 400 so the provider retries nothing it should not
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Webhook rejected"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"received": true}))
}
