package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// KeySession is the Redis hash holding the active session of a user
func KeySession(uid string) string {
	return "user:session:" + uid
}

// KeyLoginOTP is the Redis key holding a pending login code for a user
func KeyLoginOTP(uid string) string {
	return "login:otp:" + uid
}

// KeyTrustedDevice marks a device that may skip the login code
func KeyTrustedDevice(uid, dev string) string {
	return "login:trusted:" + uid + ":" + dev
}

// KeyLoginFailures counts failed password attempts for an identifier
func KeyLoginFailures(identifier string) string {
	return "login:fail:" + identifier
}

func KeyVerifyToken(t string) string { return "email:verify:token:" + t }
func KeyResetToken(t string) string { return "pwd:reset:token:" + t }

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenToken returns n random bytes encoded as URL-safe base64.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
