// Package payu реализует контрольные суммы PayU.
//
// PayU подписывает транзакции SHA-512 хэшем от строки, склеенной через
// вертикальную черту. Порядок полей и количество пустых зарезервированных
// полей фиксированы протоколом: любое расхождение на стороне генерации или
// проверки приводит к отказу всех транзакций.
package payu

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// RequestFields поля, участвующие в прямом хэше при создании платежа.
// UDF1 и UDF2 переносят платёжное намерение (kind и reference) через шлюз.
type RequestFields struct {
	Key         string
	TxnID       string
	Amount      string // Строка с ровно двумя знаками после запятой — требование шлюза
	ProductInfo string
	Firstname   string
	Email       string
	UDF1        string
	UDF2        string
	UDF3        string
	UDF4        string
	UDF5        string
}

// ReturnFields поля обратного POST от шлюза, участвующие в обратном хэше.
type ReturnFields struct {
	Status      string
	TxnID       string
	Amount      string
	ProductInfo string
	Firstname   string
	Email       string
	UDF1        string
	UDF2        string
	UDF3        string
	UDF4        string
	UDF5        string
	Key         string
}

// RequestHash вычисляет прямой хэш:
// key|txnid|amount|productinfo|firstname|email|udf1|udf2|udf3|udf4|udf5||||||salt
func RequestHash(f RequestFields, salt string) string {
	parts := []string{
		f.Key, f.TxnID, f.Amount, f.ProductInfo, f.Firstname, f.Email,
		f.UDF1, f.UDF2, f.UDF3, f.UDF4, f.UDF5,
		"", "", "", "", "",
		salt,
	}
	return digest(parts)
}

// ReturnHash вычисляет обратный хэш (поля в обратном порядке):
// salt|status||||||udf5|udf4|udf3|udf2|udf1|email|firstname|productinfo|amount|txnid|key
func ReturnHash(f ReturnFields, salt string) string {
	parts := []string{
		salt, f.Status,
		"", "", "", "", "",
		f.UDF5, f.UDF4, f.UDF3, f.UDF2, f.UDF1,
		f.Email, f.Firstname, f.ProductInfo, f.Amount, f.TxnID, f.Key,
	}
	return digest(parts)
}

// VerifyReturn сравнивает обратный хэш с присланным значением.
// Сравнение выполняется за постоянное время.
func VerifyReturn(f ReturnFields, salt, got string) bool {
	want := ReturnHash(f, salt)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func digest(parts []string) string {
	sum := sha512.Sum512([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
