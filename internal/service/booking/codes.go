package booking

import (
	"crypto/rand"
	"fmt"
)

const (
	codeAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bookingRefLength   = 6
	ticketSuffixLength = 9
	ticketPrefix       = "TKT-"
)

// NewBookingReference returns a 6 character code shared by every booking of
// one finalize call.
func NewBookingReference() (string, error) {
	return randomCode(bookingRefLength)
}

func NewTicketNumber() (string, error) {
	code, err := randomCode(ticketSuffixLength)
	if err != nil {
		return "", err
	}
	return ticketPrefix + code, nil
}

func randomCode(n int) (string, error) {
	// 252 is the largest multiple of len(codeAlphabet) below 256; higher
	// bytes are dropped so every symbol is equally likely.
	const limit = 256 - 256%len(codeAlphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
