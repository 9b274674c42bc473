package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"

	"github.com/willvault/registry/pkg/tiers"
)

var (
	ErrMissingAPIKey      = errors.New("billing: paddle api key is required")
	ErrInvalidEnvironment = errors.New("billing: invalid paddle environment")
	ErrMissingPriceID     = errors.New("billing: no paddle price id configured for tier")
)

// PaddleConfig holds the Paddle provider settings.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY,required"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`

	// ReturnURL is where the hosted checkout sends the user after payment;
	// the reconciliation flow appends its query markers to it.
	ReturnURL string `env:"PAYMENT_RETURN_URL,required"`

	PriceIDSilver   string `env:"PADDLE_PRICE_ID_SILVER"`
	PriceIDGold     string `env:"PADDLE_PRICE_ID_GOLD"`
	PriceIDPlatinum string `env:"PADDLE_PRICE_ID_PLATINUM"`
}

// PaddleProvider implements Provider on the Paddle SDK.
type PaddleProvider struct {
	CatalogPricing

	client    *paddle.SDK
	prices    map[tiers.Level]string
	returnURL string
}

// NewPaddleProvider creates a provider for the configured Paddle environment.
func NewPaddleProvider(cfg PaddleConfig, catalog tiers.Catalog) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var client *paddle.SDK
	var err error
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, errors.Join(ErrProvider, err)
	}

	return &PaddleProvider{
		CatalogPricing: NewCatalogPricing(catalog),
		client:         client,
		prices: map[tiers.Level]string{
			tiers.LevelSilver:   cfg.PriceIDSilver,
			tiers.LevelGold:     cfg.PriceIDGold,
			tiers.LevelPlatinum: cfg.PriceIDPlatinum,
		},
		returnURL: cfg.ReturnURL,
	}, nil
}

// CreateSubscription opens a Paddle transaction for the tier's price and
// returns its hosted checkout URL as the approval URL.
func (p *PaddleProvider) CreateSubscription(ctx context.Context, level tiers.Level, userID, source string) (*Order, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if p.catalog.Config(level).IsFree() {
		return nil, ErrFreePlanNotBillable
	}

	priceID, ok := p.prices[level]
	if !ok || priceID == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingPriceID, level)
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  priceID,
		Quantity: 1,
	})

	req := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"user_id": userID,
			"source":  source,
			"level":   string(level),
		},
		Checkout: &paddle.TransactionCheckout{
			URL: paddle.PtrTo(p.returnURL),
		},
	}

	txn, err := p.client.TransactionsClient.CreateTransaction(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrProvider, err)
	}

	if txn.Checkout == nil || txn.Checkout.URL == nil || *txn.Checkout.URL == "" {
		return nil, ErrNoApprovalURL
	}

	subscriptionID := txn.ID
	if txn.SubscriptionID != nil && *txn.SubscriptionID != "" {
		subscriptionID = *txn.SubscriptionID
	}

	return &Order{
		SubscriptionID: subscriptionID,
		ApprovalURL:    *txn.Checkout.URL,
	}, nil
}

// ActivateSubscription confirms a pending subscription order with Paddle.
func (p *PaddleProvider) ActivateSubscription(ctx context.Context, subscriptionID, authUserID string) error {
	if subscriptionID == "" {
		return ErrMissingSubscriptionID
	}
	if authUserID == "" {
		return ErrMissingAuthUserID
	}

	if _, err := p.client.SubscriptionsClient.ActivateSubscription(ctx, &paddle.ActivateSubscriptionRequest{
		SubscriptionID: subscriptionID,
	}); err != nil {
		return errors.Join(ErrProvider, err)
	}
	return nil
}
