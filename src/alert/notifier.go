package alert

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"schoolapi/src/model"
)

const (
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 4 * time.Second
)

// WebhookNotifier posts fatal error records to an ops webhook. Failures
// are logged and swallowed; alerting must never affect the request or the
// audit pipeline.
type WebhookNotifier struct {
	url  string
	http *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return (code >= 500 && code <= 599) || code == 429 || code == 408
}

func NewWebhookNotifier(cfg Config) *WebhookNotifier {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &WebhookNotifier{
		url:  cfg.WebhookURL,
		http: httpClient,
	}
}

func (n *WebhookNotifier) NotifyFatal(ctx context.Context, rec *model.ErrorLog) {
	if n.url == "" {
		return
	}

	payload := map[string]string{
		"tracingId":   rec.TracingID,
		"companyCode": rec.CompanyCode,
		"message":     rec.LogMessage,
		"createdBy":   rec.CreatedByApp,
		"createdOn":   rec.CreatedOnUTC.Format(time.RFC3339),
	}

	resp, err := n.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(n.url)

	if err != nil {
		logger.WithError(err).Warn("fatal error alert delivery failed")
		return
	}
	if resp.IsError() {
		logger.WithField("status", resp.StatusCode()).
			Warn("fatal error alert rejected by webhook")
	}
}
