package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hharryy/eventsnap/internal/lib/payu"
)

// PayUBuilder собирает поля формы для POST-редиректа на hosted-страницу PayU.
// Обращений к API шлюза нет: подлинность запроса обеспечивает контрольный хэш.
type PayUBuilder struct {
	key     string
	salt    string
	baseURL string
}

// NewPayUBuilder создаёт новый билдер PayU.
func NewPayUBuilder(key, salt, baseURL string) (*PayUBuilder, error) {
	if key == "" || salt == "" {
		return nil, errors.New("payu: merchant key or salt is not configured")
	}
	return &PayUBuilder{key: key, salt: salt, baseURL: baseURL}, nil
}

// Name возвращает имя шлюза.
func (b *PayUBuilder) Name() string { return NamePayU }

// CreateCheckout формирует все поля формы оплаты вместе с прямым хэшем.
// Намерение платежа уходит в udf1 (kind) и udf2 (reference).
func (b *PayUBuilder) CreateCheckout(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	const op = "gateway.payu.CreateCheckout"

	if err := req.Intent.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	txnID := NewTxnID()
	amount := FormatRupees(req.AmountMinor)
	firstname := firstName(req.Attendee.Name)

	hash := payu.RequestHash(payu.RequestFields{
		Key:         b.key,
		TxnID:       txnID,
		Amount:      amount,
		ProductInfo: req.Title,
		Firstname:   firstname,
		Email:       req.Attendee.Email,
		UDF1:        req.Intent.Kind,
		UDF2:        req.Intent.Reference(),
	}, b.salt)

	phone := req.Attendee.Phone
	if phone == "" {
		phone = "9999999999"
	}

	fields := map[string]string{
		"key":         b.key,
		"txnid":       txnID,
		"amount":      amount,
		"productinfo": req.Title,
		"firstname":   firstname,
		"email":       req.Attendee.Email,
		"phone":       phone,
		"udf1":        req.Intent.Kind,
		"udf2":        req.Intent.Reference(),
		"surl":        req.SuccessURL,
		"furl":        req.FailureURL,
		"hash":        hash,
	}

	return &CheckoutSession{
		Gateway:    NamePayU,
		FormAction: b.baseURL,
		FormFields: fields,
	}, nil
}

// VerifyReturn проверяет обратный хэш POST-а от шлюза.
func (b *PayUBuilder) VerifyReturn(f payu.ReturnFields, gotHash string) bool {
	return payu.VerifyReturn(f, b.salt, gotHash)
}

// FormatRupees переводит сумму из пайсов в строку рупий
// с ровно двумя знаками после запятой — требование формата PayU.
func FormatRupees(amountMinor int64) string {
	return fmt.Sprintf("%d.%02d", amountMinor/100, amountMinor%100)
}

func firstName(full string) string {
	name := strings.TrimSpace(full)
	if name == "" {
		return "Guest"
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
