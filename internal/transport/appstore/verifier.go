// Package appstore calls the storefront receipt verification endpoint.
package appstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/receipt"
	"github.com/kailas-cloud/tradex/internal/metrics"
)

// Environment selects the verification endpoint. It comes from server
// configuration, never from the request: a client must not be able to force
// sandbox verification against production content.
type Environment string

const (
	// EnvProduction verifies against the production storefront.
	EnvProduction Environment = "production"
	// EnvSandbox verifies against the sandbox storefront.
	EnvSandbox Environment = "sandbox"
)

// Config holds verifier settings.
type Config struct {
	Environment   Environment
	ProductionURL string
	SandboxURL    string
	Timeout       time.Duration
}

// Verifier posts receipts to the storefront verification service and checks
// the returned purchase manifest for a content ref.
type Verifier struct {
	client *resty.Client
	env    Environment
	url    string
	logger *zap.Logger
}

// New creates a receipt verifier for the configured environment.
func New(cfg Config, logger *zap.Logger) (*Verifier, error) {
	var url string
	switch cfg.Environment {
	case EnvProduction:
		url = cfg.ProductionURL
	case EnvSandbox:
		url = cfg.SandboxURL
	default:
		return nil, fmt.Errorf("unknown verifier environment %q", cfg.Environment)
	}
	if url == "" {
		return nil, fmt.Errorf("verifier URL for %s is required", cfg.Environment)
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Verifier{client: client, env: cfg.Environment, url: url, logger: logger}, nil
}

// verifyRequest is the storefront wire format.
type verifyRequest struct {
	ReceiptData string `json:"receipt-data"`
}

// manifest is the purchase manifest the storefront returns.
type manifest struct {
	Status  int `json:"status"`
	Receipt struct {
		InApp []struct {
			ProductID string `json:"product_id"`
		} `json:"in_app"`
	} `json:"receipt"`
}

// Verify reports whether the receipt's purchase manifest lists contentRef.
// Transport errors, timeouts and non-2xx responses surface as
// ErrVerificationUnavailable. An unparseable body counts as not purchased;
// the outcome metric and a warn log keep that leniency visible.
func (v *Verifier) Verify(ctx context.Context, rcpt receipt.Receipt, contentRef string) (bool, error) {
	start := time.Now()

	resp, err := v.client.R().
		SetContext(ctx).
		SetBody(&verifyRequest{ReceiptData: rcpt.Raw()}).
		Post(v.url)

	metrics.ReceiptVerificationDuration.WithLabelValues(string(v.env)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ReceiptVerificationsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("%w: %w", domain.ErrVerificationUnavailable, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		metrics.ReceiptVerificationsTotal.WithLabelValues("error").Inc()
		return false, fmt.Errorf("%w: status %d", domain.ErrVerificationUnavailable, resp.StatusCode())
	}

	var m manifest
	if err := json.Unmarshal(resp.Body(), &m); err != nil {
		metrics.ReceiptVerificationsTotal.WithLabelValues("unparseable").Inc()
		v.logger.Warn("unparseable verification response treated as not purchased",
			zap.String("receipt_key", rcpt.Key()),
			zap.String("content_ref", contentRef),
			zap.Error(err))
		return false, nil
	}

	for _, item := range m.Receipt.InApp {
		if item.ProductID == contentRef {
			metrics.ReceiptVerificationsTotal.WithLabelValues("purchased").Inc()
			return true, nil
		}
	}

	metrics.ReceiptVerificationsTotal.WithLabelValues("not_purchased").Inc()
	return false, nil
}
