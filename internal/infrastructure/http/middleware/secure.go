package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureOptions returns secure.Options for a JSON API called cross-origin by the web app and the
// extension. Framing and content sniffing are denied; nothing is rendered, so the CSP blocks all.
func SecureOptions(isDevelopment bool, allowedHosts []string) secure.Options {
	return secure.Options{
		IsDevelopment:         isDevelopment,
		AllowedHosts:          allowedHosts,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
}

// NewSecure returns a middleware that adds security headers.
func NewSecure(opts secure.Options) func(next http.Handler) http.Handler {
	s := secure.New(opts)
	return s.Handler
}
