package payu

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRequest() RequestFields {
	return RequestFields{
		Key:         "merchantkey",
		TxnID:       "tx_123",
		Amount:      "499.00",
		ProductInfo: "Go Conference",
		Firstname:   "Asha",
		Email:       "asha@example.com",
		UDF1:        "event_ticket",
		UDF2:        "evt-1",
	}
}

func TestRequestHash(t *testing.T) {
	got := RequestHash(sampleRequest(), "salt")

	raw := "merchantkey|tx_123|499.00|Go Conference|Asha|asha@example.com|" +
		"event_ticket|evt-1" + strings.Repeat("|", 9) + "salt"
	sum := sha512.Sum512([]byte(raw))
	want := hex.EncodeToString(sum[:])

	assert.Equal(t, want, got)
}

func TestRequestHash_DiffersOnAmount(t *testing.T) {
	base := sampleRequest()
	tampered := base
	tampered.Amount = "1.00"

	assert.NotEqual(t, RequestHash(base, "salt"), RequestHash(tampered, "salt"))
}

func sampleReturn() ReturnFields {
	return ReturnFields{
		Status:      "success",
		TxnID:       "tx_123",
		Amount:      "499.00",
		ProductInfo: "Go Conference",
		Firstname:   "Asha",
		Email:       "asha@example.com",
		UDF1:        "event_ticket",
		UDF2:        "evt-1",
		Key:         "merchantkey",
	}
}

func TestVerifyReturn(t *testing.T) {
	fields := sampleReturn()
	valid := ReturnHash(fields, "salt")

	tests := []struct {
		name   string
		fields ReturnFields
		hash   string
		want   bool
	}{
		{
			name:   "valid hash accepted",
			fields: fields,
			hash:   valid,
			want:   true,
		},
		{
			name: "tampered amount rejected",
			fields: func() ReturnFields {
				f := fields
				f.Amount = "1.00"
				return f
			}(),
			hash: valid,
			want: false,
		},
		{
			name: "tampered status rejected",
			fields: func() ReturnFields {
				f := fields
				f.Status = "failure"
				return f
			}(),
			hash: valid,
			want: false,
		},
		{
			name:   "wrong hash rejected",
			fields: fields,
			hash:   "deadbeef",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyReturn(tt.fields, "salt", tt.hash))
		})
	}
}

func TestVerifyReturn_WrongSalt(t *testing.T) {
	fields := sampleReturn()
	valid := ReturnHash(fields, "salt")

	assert.False(t, VerifyReturn(fields, "other-salt", valid))
}
