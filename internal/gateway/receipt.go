package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ReceiptGenerator produces opaque payout receipt numbers. The HMAC keeps
// receipts unguessable without making them traceable to shop ids.
type ReceiptGenerator struct {
	secret string
}

func NewReceiptGenerator(secret string) *ReceiptGenerator {
	return &ReceiptGenerator{secret: secret}
}

func (g *ReceiptGenerator) Generate(shopID int64) string {
	nonce := uuid.NewString()

	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(fmt.Sprintf("shop:%d|nonce:%s", shopID, nonce)))

	sum := mac.Sum(nil)
	tag := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum)

	return fmt.Sprintf(
		"PG-%s-%s",
		strings.ToUpper(tag[:4]),
		strings.ToUpper(nonce[:4]),
	)
}
