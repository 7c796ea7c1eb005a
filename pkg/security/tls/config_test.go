package tls

import (
	"crypto/tls"
	"testing"

	"mercator-hq/h2scaffold/pkg/config"
)

func TestNewServerConfig(t *testing.T) {
	getCert := func(*tls.ClientHelloInfo) (*tls.Certificate, error) { return nil, nil }

	t.Run("defaults", func(t *testing.T) {
		cfg := config.Default().Security.TLS

		tlsConfig, err := NewServerConfig(&cfg, getCert)
		if err != nil {
			t.Fatalf("NewServerConfig() error = %v", err)
		}
		if tlsConfig.MinVersion != tls.VersionTLS12 {
			t.Errorf("MinVersion = %x, want TLS 1.2", tlsConfig.MinVersion)
		}
		if len(tlsConfig.NextProtos) != 2 || tlsConfig.NextProtos[0] != "h2" || tlsConfig.NextProtos[1] != "http/1.1" {
			t.Errorf("NextProtos = %v, want [h2 http/1.1]", tlsConfig.NextProtos)
		}
		if tlsConfig.GetCertificate == nil {
			t.Error("GetCertificate not set")
		}
		if tlsConfig.CipherSuites != nil {
			t.Errorf("CipherSuites = %v, want Go defaults", tlsConfig.CipherSuites)
		}
	})

	t.Run("tls 1.3 with suites", func(t *testing.T) {
		cfg := config.TLSConfig{
			MinVersion:   "1.3",
			CipherSuites: []string{"tls_ecdhe_rsa_with_aes_128_gcm_sha256"},
		}

		tlsConfig, err := NewServerConfig(&cfg, getCert)
		if err != nil {
			t.Fatalf("NewServerConfig() error = %v", err)
		}
		if tlsConfig.MinVersion != tls.VersionTLS13 {
			t.Errorf("MinVersion = %x, want TLS 1.3", tlsConfig.MinVersion)
		}
		if len(tlsConfig.CipherSuites) != 1 || tlsConfig.CipherSuites[0] != tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256 {
			t.Errorf("CipherSuites = %v", tlsConfig.CipherSuites)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			cfg     config.TLSConfig
			getCert GetCertificateFunc
		}{
			{name: "no certificate source", cfg: config.TLSConfig{MinVersion: "1.2"}},
			{name: "bad version", cfg: config.TLSConfig{MinVersion: "1.0"}, getCert: getCert},
			{name: "unknown suite", cfg: config.TLSConfig{MinVersion: "1.2", CipherSuites: []string{"TLS_RSA_WITH_RC4_128_SHA"}}, getCert: getCert},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := NewServerConfig(&tt.cfg, tt.getCert); err == nil {
					t.Error("expected error, got nil")
				}
			})
		}
	})
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{in: "", want: tls.VersionTLS12},
		{in: "1.2", want: tls.VersionTLS12},
		{in: "1.3", want: tls.VersionTLS13},
		{in: "1.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}
