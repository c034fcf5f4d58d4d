package utils

import "strings"

const (
	TicketPrefix      = "FIX"
	TicketBodyLength  = 8
	SecurityKeyLength = 8
	ticketAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateTicketCode возвращает публичный номер заявки вида FIX + 8 символов [A-Z0-9].
func GenerateTicketCode() (string, error) {
	body, err := randomString(ticketAlphabet, TicketBodyLength)
	if err != nil {
		return "", err
	}
	return TicketPrefix + body, nil
}

// GenerateSecurityKey возвращает ключ доступа из 8 символов [A-Z0-9].
func GenerateSecurityKey() (string, error) {
	return randomString(ticketAlphabet, SecurityKeyLength)
}

func randomString(alphabet string, n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}
