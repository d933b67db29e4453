package billing

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"

	"collabcanvas-app/database"
	authapi "collabcanvas-app/internal/api/auth"
	"collabcanvas-app/internal/domain/billing"
	"collabcanvas-app/internal/domain/projects"
	"collabcanvas-app/internal/domain/users"
	"collabcanvas-app/logutils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

func readStripeBody(c *gin.Context, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(c.Request.Body, limit))
}

// POST /webhook
func StripeWebhook(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if stripe.Key == "" || endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logutils.Log.WithError(err).Warn("stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := handleCheckoutCompleted(&session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func handleCheckoutCompleted(session *stripe.CheckoutSession) error {
	userID, _ := strconv.ParseUint(session.Metadata["user_id"], 10, 64)
	if userID == 0 {
		userID, _ = strconv.ParseUint(session.ClientReferenceID, 10, 64)
	}
	projectID := session.Metadata["project_id"]

	payment := billing.Payment{
		UserID:          uint(userID),
		ProjectID:       projectID,
		StripeSessionID: session.ID,
		Amount:          float64(session.AmountTotal) / 100,
		Currency:        string(session.Currency),
		Status:          string(session.PaymentStatus),
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		return err
	}

	// Invoice email is best-effort; the payment is already recorded.
	var user users.User
	var project projects.Project
	if database.DB.First(&user, "id = ?", payment.UserID).Error == nil &&
		database.DB.First(&project, "id = ?", projectID).Error == nil {
		if err := authapi.SendInvoiceEmail(user.Email, project.Title, payment.Amount, payment.Currency); err != nil {
			logutils.Log.WithFields(logutils.Fields{"user": user.ID}).
				WithError(err).Warn("invoice email failed")
		}
	}
	return nil
}
