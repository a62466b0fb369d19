package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/damoang/eventhub-backend/internal/checkout"
	"github.com/damoang/eventhub-backend/internal/common"
	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/service"
	"github.com/damoang/eventhub-backend/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const maxWebhookBody = 64 << 10

// CheckoutHandler receives payment server callbacks
type CheckoutHandler struct {
	registrations *service.RegistrationService
	secret        string
	validate      *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(registrations *service.RegistrationService, secret string) *CheckoutHandler {
	v := validator.New()
	v.SetTagName("binding")
	return &CheckoutHandler{registrations: registrations, secret: secret, validate: v}
}

// Webhook godoc
// @Summary      Checkout completion callback
// @Description  Body must be signed with the shared secret (hex HMAC-SHA256 in X-Checkout-Signature).
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CheckoutWebhookRequest  true  "outcome"
// @Success      204
// @Failure      401      {object}  common.Response
// @Router       /v1/checkout/webhook [post]
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	// the signature covers the raw bytes, so verify before decoding
	if h.secret == "" || !checkout.Verify(h.secret, body, c.GetHeader(checkout.SignatureHeader)) {
		common.ErrorResponse(c, http.StatusUnauthorized, i18n.Default().T(common.LocaleFrom(c), "auth.token_invalid"), nil)
		return
	}

	var req domain.CheckoutWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		common.BadRequest(c, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		common.BadRequest(c, err)
		return
	}
	if err := h.registrations.CompleteCheckout(c.Request.Context(), req.OrderID, req.Status); err != nil {
		common.Fail(c, err)
		return
	}
	common.NoContent(c)
}
