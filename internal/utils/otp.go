package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOtp returns a 6-digit numeric code, uniform over [100000, 999999].
func GenerateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
