package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeMSISDN(t *testing.T) {
	tests := []struct {
		name   string
		msisdn string
	}{
		{"local number", "9814012345"},
		{"international format", "+9779814012345"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeMSISDN(tt.msisdn)
			if tt.msisdn != "" {
				assert.NotEqual(t, tt.msisdn, encoded)
			}
			assert.Equal(t, tt.msisdn, DecodeMSISDN(encoded))
		})
	}
}

// A blob that is not valid base64 comes back verbatim instead of vanishing.
func TestDecodeMSISDN_CorruptBlob(t *testing.T) {
	assert.Equal(t, "!!not-base64!!", DecodeMSISDN("!!not-base64!!"))
}
