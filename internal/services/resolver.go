package services

import (
	"strings"

	"github.com/desertthunder/todox/internal/demo"
)

// Resolver routes a username to the backend that owns it.
type Resolver struct {
	demo   Service
	remote Service
	prefix string
}

// NewResolver creates a [Resolver]. An empty prefix uses [demo.UsernamePrefix].
func NewResolver(demoSvc, remote Service, prefix string) *Resolver {
	if prefix == "" {
		prefix = demo.UsernamePrefix
	}
	return &Resolver{demo: demoSvc, remote: remote, prefix: prefix}
}

// IsDemo reports whether username is served by the demo backend.
func (r *Resolver) IsDemo(username string) bool {
	return strings.HasPrefix(username, r.prefix)
}

// For returns the demo service for demo usernames and the remote service otherwise.
func (r *Resolver) For(username string) Service {
	if r.IsDemo(username) {
		return r.demo
	}
	return r.remote
}
