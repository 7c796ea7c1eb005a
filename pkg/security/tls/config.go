package tls

import (
	"crypto/tls"
	"fmt"
	"strings"

	"mercator-hq/h2scaffold/pkg/config"
)

// NextProtos is the ALPN preference advertised by the TLS listener.
var NextProtos = []string{"h2", "http/1.1"}

// GetCertificateFunc matches tls.Config.GetCertificate.
type GetCertificateFunc func(*tls.ClientHelloInfo) (*tls.Certificate, error)

// NewServerConfig builds the TLS configuration for the secure listener.
// Certificates are served through getCert so they can be rotated without a
// restart. HTTP/2 is offered first, then HTTP/1.1.
func NewServerConfig(cfg *config.TLSConfig, getCert GetCertificateFunc) (*tls.Config, error) {
	if getCert == nil {
		return nil, fmt.Errorf("certificate source is required")
	}

	minVersion, err := ParseVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: getCert,
		NextProtos:     append([]string(nil), NextProtos...),
	}

	if len(cfg.CipherSuites) > 0 {
		suites, err := ParseCipherSuites(cfg.CipherSuites)
		if err != nil {
			return nil, err
		}
		tlsConfig.CipherSuites = suites
	}

	return tlsConfig, nil
}

// ParseVersion converts "1.2" or "1.3" into the crypto/tls constant.
// An empty string selects TLS 1.2.
func ParseVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", version)
	}
}

// ParseCipherSuites maps suite names to their IDs. TLS 1.3 suites are
// accepted but have no effect: Go always enables all of them.
func ParseCipherSuites(names []string) ([]uint16, error) {
	suites := make([]uint16, 0, len(names))
	for _, name := range names {
		id, ok := cipherSuiteMap[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown or insecure cipher suite %q", name)
		}
		suites = append(suites, id)
	}
	return suites, nil
}

var cipherSuiteMap = map[string]uint16{
	"TLS_AES_128_GCM_SHA256":       tls.TLS_AES_128_GCM_SHA256,
	"TLS_AES_256_GCM_SHA384":       tls.TLS_AES_256_GCM_SHA384,
	"TLS_CHACHA20_POLY1305_SHA256": tls.TLS_CHACHA20_POLY1305_SHA256,

	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":         tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":         tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256":       tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384":       tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256":   tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256": tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}
