package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidTicket = errors.New("invalid ticket")

// TicketIssuer signs connection tickets. A ticket names the connection id a
// client will use on the WebSocket, so the id is known before the upgrade.
type TicketIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTicketIssuer returns nil when secret is empty; tickets are then
// disabled and every WebSocket gets a fresh id.
func NewTicketIssuer(secret string, ttl time.Duration) *TicketIssuer {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TicketIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a ticket for a new connection id.
func (t *TicketIssuer) Issue() (connID, token string, err error) {
	connID = uuid.NewString()
	now := t.now()
	claims := jwt.MapClaims{
		"conn_id": connID,
		"exp":     now.Add(t.ttl).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", err
	}
	return connID, token, nil
}

// Parse validates a ticket and returns its connection id.
func (t *TicketIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidTicket
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidTicket
	}
	connID, ok := claims["conn_id"].(string)
	if !ok {
		return "", ErrInvalidTicket
	}
	if _, err := uuid.Parse(connID); err != nil {
		return "", ErrInvalidTicket
	}
	return connID, nil
}
