package auth

import "time"

// Service binds the signing secret once so handlers do not pass it
// around.
type Service struct {
	secret []byte
}

func NewService(secret []byte) *Service {
	return &Service{secret: secret}
}

func (s *Service) Sign(userID string, ttl time.Duration) (string, error) {
	return Sign(s.secret, userID, ttl)
}

func (s *Service) SignWithName(userID, name string, ttl time.Duration) (string, error) {
	return SignWithName(s.secret, userID, name, ttl)
}

func (s *Service) Verify(token string) (*Claims, error) {
	return Verify(s.secret, token)
}
