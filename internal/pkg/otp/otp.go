package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Validity is how long a generated code stays usable.
const Validity = 10 * time.Minute

// Generate returns a uniform random code in [100000, 999999] as a
// fixed-width string.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
