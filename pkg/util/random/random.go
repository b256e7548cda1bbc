package random

import (
	"crypto/rand"
	"math/big"
	"time"
)

// GetNowAndLenRandomString returns a timestamped random string used as the
// body of record UUIDs. Format: YYMMDD followed by `length` alphanumerics,
// e.g. 260830AbCdE1234.
func GetNowAndLenRandomString(length int) string {
	result := make([]byte, length)
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	charsetLen := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			result[i] = 'x'
			continue
		}
		result[i] = charset[n.Int64()]
	}
	return time.Now().Format("060102") + string(result)
}
