package server

import (
	"github.com/osa911/portfolio/internal/service"
)

// Option customizes a Server.
type Option func(*Server)

// WithTransportFactory replaces the mail transport built from config.
func WithTransportFactory(f service.TransportFactory) Option {
	return func(s *Server) {
		s.newTransport = f
	}
}

// WithLimiter replaces the submission limiter built from config.
func WithLimiter(l service.SubmissionLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}
