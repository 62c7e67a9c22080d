package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP returns a uniform 6-digit code in [100000, 999999]. The
// code is the only verification factor, so it is drawn from
// crypto/rand rather than a seeded PRNG.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process has no entropy source;
		// nothing sensible to do but stop.
		panic(fmt.Sprintf("otp: crypto/rand unavailable: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// RandomDigits returns n random decimal digits; used for the
// placeholder phone number on Google-first accounts.
func RandomDigits(n int) string {
	const charset = "0123456789"
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("otp: crypto/rand unavailable: %v", err))
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
