package domain

import (
	"encoding/base64"
	"time"
)

// LinkedAccount is a carrier account registered under a user. The session
// token is an opaque, refreshable credential issued by the carrier on OTP
// exchange.
type LinkedAccount struct {
	ID        int64
	UserID    int64
	MSISDN    string
	Token     string
	CreatedAt time.Time
}

// EncodeMSISDN encodes a phone number for storage. The number is never
// written to the store in cleartext.
func EncodeMSISDN(msisdn string) string {
	return base64.StdEncoding.EncodeToString([]byte(msisdn))
}

// DecodeMSISDN reverses EncodeMSISDN. Undecodable blobs come back verbatim
// so a corrupt row still renders something identifiable.
func DecodeMSISDN(blob string) string {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return blob
	}
	return string(raw)
}
