/*
Package tls serves the certificate for the TLS listener.

NewServerConfig builds a crypto/tls configuration that negotiates HTTP/2 or
HTTP/1.1 via ALPN and obtains its certificate from a CertificateReloader:

	reloader := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile,
		tls.WithObserver(collector),
		tls.WithLogger(logger),
	)
	if err := reloader.Load(); err != nil {
		return err
	}
	if cfg.Watch {
		if err := reloader.Watch(ctx); err != nil {
			return err
		}
	}

	tlsConfig, err := tls.NewServerConfig(cfg, reloader.GetCertificate)

The reloader watches the certificate directory with fsnotify and swaps the
key pair in place; a bad file on disk keeps the previous certificate.
ExpiryMonitor re-checks the certificate on a cron schedule and logs a
warning when it nears expiry.

GenerateSelfSigned and WriteKeyPair produce development certificates.
*/
package tls
