package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RazorpayClient клиент Razorpay Orders API. Заказ создаётся на сервере,
// а списание подтверждается отдельным вебхуком payment.captured.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewRazorpayClient создаёт новый клиент Razorpay.
func NewRazorpayClient(keyID, keySecret string) (*RazorpayClient, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay: key id or secret is not configured")
	}
	return &RazorpayClient{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     "https://api.razorpay.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Name возвращает имя шлюза.
func (c *RazorpayClient) Name() string { return NameRazorpay }

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"` // В минимальных единицах (пайсах)
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateCheckout создаёт заказ и возвращает его идентификатор
// вместе с публичным key id для клиентского виджета.
func (c *RazorpayClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	const op = "gateway.razorpay.CreateCheckout"

	txnID := NewTxnID()
	orderReq := razorpayOrderRequest{
		Amount:   req.AmountMinor,
		Currency: "INR",
		Receipt:  txnID,
		Notes: map[string]string{
			MetaIntentKind:    req.Intent.Kind,
			MetaIntentRef:     req.Intent.Reference(),
			MetaAttendeeName:  req.Attendee.Name,
			MetaAttendeeEmail: req.Attendee.Email,
			MetaAttendeePhone: req.Attendee.Phone,
		},
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/orders", orderReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var order razorpayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &CheckoutSession{
		Gateway: NameRazorpay,
		OrderID: order.ID,
		KeyID:   c.keyID,
	}, nil
}

func (c *RazorpayClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
