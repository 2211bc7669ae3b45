// Package middleware provides HTTP middleware for the artwork API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labeled by route template
package middleware
