package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"encoding/json"
)

// StripeClient клиент Stripe Checkout. API Stripe принимает form-encoded запросы
// и авторизуется секретным ключом в заголовке Bearer.
type StripeClient struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewStripeClient создаёт новый клиент Stripe.
func NewStripeClient(secretKey string) (*StripeClient, error) {
	if secretKey == "" {
		return nil, errors.New("stripe: secret key is not configured")
	}
	return &StripeClient{
		secretKey:  secretKey,
		apiURL:     "https://api.stripe.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Name возвращает имя шлюза.
func (c *StripeClient) Name() string { return NameStripe }

// StripeSession ответ Stripe по checkout-сессии.
type StripeSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// CreateCheckout создаёт hosted checkout-сессию и возвращает URL для редиректа.
// Намерение платежа и данные посетителя уходят в metadata сессии.
func (c *StripeClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	const op = "gateway.stripe.CreateCheckout"

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", "inr")
	form.Set("line_items[0][price_data][product_data][name]", req.Title)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set(fmt.Sprintf("metadata[%s]", MetaIntentKind), req.Intent.Kind)
	form.Set(fmt.Sprintf("metadata[%s]", MetaIntentRef), req.Intent.Reference())
	form.Set(fmt.Sprintf("metadata[%s]", MetaAttendeeName), req.Attendee.Name)
	form.Set(fmt.Sprintf("metadata[%s]", MetaAttendeeEmail), req.Attendee.Email)
	form.Set(fmt.Sprintf("metadata[%s]", MetaAttendeePhone), req.Attendee.Phone)

	var session StripeSession
	if err := c.do(ctx, http.MethodPost, "/checkout/sessions", form, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &CheckoutSession{
		Gateway:     NameStripe,
		RedirectURL: session.URL,
	}, nil
}

// GetSession перечитывает checkout-сессию по её идентификатору.
// Подтверждение платежа строится на этом pull-запросе, а не на полях клиента.
func (c *StripeClient) GetSession(ctx context.Context, sessionID string) (*StripeSession, error) {
	const op = "gateway.stripe.GetSession"

	var session StripeSession
	if err := c.do(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}
	return nil
}
