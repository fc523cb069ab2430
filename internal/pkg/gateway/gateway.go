package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"rental-service/config"
	"rental-service/internal/pkg/log"

	"github.com/goccy/go-json"
	"go.elastic.co/apm"
)

const (
	registerPath = "/register.do"
	statusPath   = "/getOrderStatusExtended.do"

	maxBodyBytes   = 1 << 20
	maxDetailBytes = 256
)

// Gateway is the card payment gateway. Implementations never persist anything.
type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error)
	VerifyOrder(ctx context.Context, externalOrderID string) (VerifyOrderResult, error)
}

// Doer is satisfied by *http.Client and by the circuit breaker HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type client struct {
	cfg        *config.GatewayConfig
	httpClient Doer
	log        log.Logger
}

func New(cfg *config.GatewayConfig, httpClient Doer, log log.Logger) Gateway {
	return &client{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log,
	}
}

func (c *client) CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error) {
	span, ctx := apm.StartSpan(ctx, "gateway.create_order", "external.http")
	defer span.End()

	form := c.credentials()
	form.Set("amount", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("currency", req.Currency)
	form.Set("orderNumber", req.Reference)
	form.Set("returnUrl", req.ReturnURL)
	form.Set("failUrl", req.FailURL)
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	if req.Customer.Email != "" {
		form.Set("email", req.Customer.Email)
	}
	if req.Customer.Phone != "" {
		form.Set("phone", req.Customer.Phone)
	}
	if req.Customer.FullName != "" {
		params, _ := json.Marshal(map[string]string{"fullName": req.Customer.FullName})
		form.Set("jsonParams", string(params))
	}

	body, err := c.post(ctx, registerPath, form)
	if err != nil {
		return CreateOrderResult{}, c.capture(ctx, err)
	}

	var resp registerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return CreateOrderResult{}, c.capture(ctx, formatError(body, err))
	}

	if isErrorCode(resp.ErrorCode) {
		return CreateOrderResult{}, c.capture(ctx, &GatewayError{
			Kind:    KindBusiness,
			Code:    string(resp.ErrorCode),
			Detail:  resp.ErrorMessage,
			Payload: string(body),
		})
	}

	if resp.OrderID == "" || resp.FormURL == "" {
		return CreateOrderResult{}, c.capture(ctx, &GatewayError{
			Kind:    KindFormat,
			Detail:  "response is missing orderId or formUrl",
			Payload: string(body),
		})
	}

	return CreateOrderResult{
		ExternalOrderID: resp.OrderID,
		RedirectURL:     resp.FormURL,
	}, nil
}

func (c *client) VerifyOrder(ctx context.Context, externalOrderID string) (VerifyOrderResult, error) {
	span, ctx := apm.StartSpan(ctx, "gateway.verify_order", "external.http")
	defer span.End()

	form := c.credentials()
	form.Set("orderId", externalOrderID)

	body, err := c.post(ctx, statusPath, form)
	if err != nil {
		return VerifyOrderResult{}, c.capture(ctx, err)
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return VerifyOrderResult{}, c.capture(ctx, formatError(body, err))
	}

	if isErrorCode(resp.ErrorCode) {
		return VerifyOrderResult{}, c.capture(ctx, &GatewayError{
			Kind:    KindBusiness,
			Code:    string(resp.ErrorCode),
			Detail:  resp.ErrorMessage,
			Payload: string(body),
		})
	}

	amount, _ := strconv.ParseInt(string(resp.Amount), 10, 64)
	raw := string(resp.OrderStatus)

	return VerifyOrderResult{
		RawStatusCode: raw,
		Status:        MapOrderStatus(raw),
		Amount:        amount,
		Currency:      string(resp.Currency),
		Payload:       string(body),
	}, nil
}

func (c *client) credentials() url.Values {
	form := url.Values{}
	form.Set("userName", c.cfg.Username)
	form.Set("password", c.cfg.Password)
	if c.cfg.Language != "" {
		form.Set("language", c.cfg.Language)
	}
	return form
}

// post returns the raw body, or a transport/format GatewayError.
func (c *client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &GatewayError{Kind: KindTransport, Detail: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Kind: KindTransport, Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &GatewayError{Kind: KindTransport, Detail: fmt.Sprintf("read body: %v", err), Err: err}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, &GatewayError{
			Kind:    KindFormat,
			Detail:  fmt.Sprintf("unexpected html response (status %d): %s", resp.StatusCode, snippet(body)),
			Payload: string(body),
		}
	}

	if resp.StatusCode >= http.StatusBadRequest && !json.Valid(body) {
		return nil, &GatewayError{
			Kind:    KindFormat,
			Detail:  fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, snippet(body)),
			Payload: string(body),
		}
	}

	return body, nil
}

func (c *client) capture(ctx context.Context, err error) error {
	apm.CaptureError(ctx, err).Send()
	c.log.Warn(ctx, "payment gateway call failed", err)
	return err
}

func formatError(body []byte, err error) error {
	return &GatewayError{
		Kind:    KindFormat,
		Detail:  fmt.Sprintf("response is not valid json: %s", snippet(body)),
		Payload: string(body),
		Err:     err,
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxDetailBytes {
		s = s[:maxDetailBytes] + "..."
	}
	return s
}
