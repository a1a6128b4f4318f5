// Package checkout talks to Stripe Checkout.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

type SessionRequest struct {
	Title         string
	Amount        int64
	CustomerEmail string
	Metadata      map[string]string
}

type Session struct {
	ID  string
	URL string
}

// WebhookEvent is the verified part of a Stripe event the service acts on.
// Session fields are filled for checkout session events only.
type WebhookEvent struct {
	ID            string
	Type          string
	SessionID     string
	CustomerEmail string
	AmountTotal   int64
	PaymentStatus string
	Metadata      map[string]string
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

// CreateCheckoutSession opens a hosted payment page with a single line item.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(g.successURL),
		CancelURL:          stripe.String(g.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Title),
				},
				UnitAmount: stripe.Int64(req.Amount),
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header against the raw payload.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return parseWebhook(payload, signature, g.webhookSecret)
}

func parseWebhook(payload []byte, signature, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Type != EventCheckoutSessionCompleted || event.Data == nil {
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session: %v", domain.ErrInvalidInput, err)
	}
	out.SessionID = session.ID
	out.AmountTotal = session.AmountTotal
	out.PaymentStatus = string(session.PaymentStatus)
	out.Metadata = session.Metadata
	out.CustomerEmail = session.CustomerEmail
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		out.CustomerEmail = session.CustomerDetails.Email
	}
	return out, nil
}
