package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval delays a reload after the last file event so a
// certificate and key written in quick succession are loaded together.
const DefaultDebounceInterval = 250 * time.Millisecond

// ErrNoCertificate is returned while no certificate has been loaded.
var ErrNoCertificate = errors.New("no TLS certificate loaded")

// ReloadObserver receives the outcome of every certificate load.
// *metrics.Collector satisfies it.
type ReloadObserver interface {
	RecordCertificateReload(err error)
	SetCertificateExpiry(subject string, notAfter time.Time)
}

// CertificateReloader serves the certificate for the TLS listener and
// reloads it when the files on disk change. A failed reload keeps the
// previous certificate.
type CertificateReloader struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	observer ReloadObserver
	debounce time.Duration

	mu   sync.RWMutex
	cert *tls.Certificate
	leaf *x509.Certificate
}

// ReloaderOption configures a CertificateReloader.
type ReloaderOption func(*CertificateReloader)

// WithLogger sets the logger used for reload events.
func WithLogger(logger *slog.Logger) ReloaderOption {
	return func(r *CertificateReloader) {
		r.logger = logger
	}
}

// WithObserver reports every load to o.
func WithObserver(o ReloadObserver) ReloaderOption {
	return func(r *CertificateReloader) {
		r.observer = o
	}
}

// WithDebounce overrides DefaultDebounceInterval.
func WithDebounce(d time.Duration) ReloaderOption {
	return func(r *CertificateReloader) {
		r.debounce = d
	}
}

// NewCertificateReloader creates a reloader for the given key pair. Call
// Load before serving.
func NewCertificateReloader(certFile, keyFile string, opts ...ReloaderOption) *CertificateReloader {
	r := &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   slog.Default(),
		debounce: DefaultDebounceInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "tls.reloader")
	return r
}

// Load reads and validates the key pair and swaps it in.
func (r *CertificateReloader) Load() error {
	err := r.load()
	if r.observer != nil {
		r.observer.RecordCertificateReload(err)
	}
	return err
}

func (r *CertificateReloader) load() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair %q/%q: %w", r.certFile, r.keyFile, err)
	}

	leaf, err := leafOf(&cert)
	if err != nil {
		return err
	}
	if err := ValidateX509Certificate(leaf, time.Now()); err != nil {
		return err
	}
	cert.Leaf = leaf

	r.mu.Lock()
	r.cert = &cert
	r.leaf = leaf
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.SetCertificateExpiry(SubjectName(leaf), leaf.NotAfter)
	}

	r.logger.Info("certificate loaded",
		"cert_file", r.certFile,
		"subject", SubjectName(leaf),
		"issuer", leaf.Issuer.CommonName,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	)

	return nil
}

// Watch reloads the key pair whenever either file changes, until ctx is
// cancelled. The parent directories are watched rather than the files so
// atomic renames and symlink swaps are picked up. Watch returns once the
// watcher is installed.
func (r *CertificateReloader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dirs := map[string]struct{}{
		filepath.Dir(r.certFile): {},
		filepath.Dir(r.keyFile):  {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	r.logger.Info("certificate watcher started",
		"cert_file", r.certFile,
		"key_file", r.keyFile,
		"debounce_ms", r.debounce.Milliseconds(),
	)

	go r.watchLoop(ctx, watcher)
	return nil
}

func (r *CertificateReloader) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("certificate watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !r.relevant(event) {
				continue
			}

			r.logger.Debug("certificate file event", "path", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(r.debounce, func() {
				if err := r.Load(); err != nil {
					r.logger.Error("certificate reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error("certificate watcher error", "error", err)
		}
	}
}

// relevant reports whether event touches the key pair. Kubernetes secret
// mounts swap a "..data" symlink instead of writing the files.
func (r *CertificateReloader) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == filepath.Clean(r.certFile) || name == filepath.Clean(r.keyFile) {
		return true
	}
	return filepath.Base(name) == "..data"
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cert == nil {
		return nil, ErrNoCertificate
	}
	return r.cert, nil
}

// Leaf returns the parsed serving certificate, or nil before the first
// successful load.
func (r *CertificateReloader) Leaf() *x509.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.leaf
}

// Check is a readiness check: it fails when no certificate is loaded or the
// loaded one is outside its validity window.
func (r *CertificateReloader) Check(ctx context.Context) error {
	leaf := r.Leaf()
	if leaf == nil {
		return ErrNoCertificate
	}
	return ValidateX509Certificate(leaf, time.Now())
}
