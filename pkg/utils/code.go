package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength is the number of digits in a one-time password.
const OTPLength = 6

// GenerateOTPCode generates a uniformly random numeric code using a
// cryptographic source, suitable for short-lived second factors.
func GenerateOTPCode() (string, error) {
	code := ""
	for i := 0; i < OTPLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code += fmt.Sprintf("%d", n.Int64())
	}
	return code, nil
}
