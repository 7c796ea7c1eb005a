package tls

import (
	"context"
	"crypto/tls"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCertificateReloader_Load(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir, time.Now().Add(-time.Minute), 24*time.Hour)

	obs := &recordingObserver{}
	r := NewCertificateReloader(certFile, keyFile, WithObserver(obs))

	if _, err := r.GetCertificate(&tls.ClientHelloInfo{}); !errors.Is(err, ErrNoCertificate) {
		t.Errorf("GetCertificate() before Load error = %v, want ErrNoCertificate", err)
	}
	if err := r.Check(context.Background()); !errors.Is(err, ErrNoCertificate) {
		t.Errorf("Check() before Load error = %v, want ErrNoCertificate", err)
	}

	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cert, err := r.GetCertificate(&tls.ClientHelloInfo{})
	if err != nil || cert == nil {
		t.Fatalf("GetCertificate() = %v, %v", cert, err)
	}
	if cert.Leaf == nil {
		t.Error("Leaf not populated")
	}
	if err := r.Check(context.Background()); err != nil {
		t.Errorf("Check() error = %v", err)
	}

	reloads, subject, notAfter := obs.snapshot()
	if len(reloads) != 1 || reloads[0] != nil {
		t.Errorf("reloads = %v, want one success", reloads)
	}
	if subject != "localhost" {
		t.Errorf("subject = %q, want localhost", subject)
	}
	if !notAfter.Equal(r.Leaf().NotAfter) {
		t.Errorf("notAfter = %v, want %v", notAfter, r.Leaf().NotAfter)
	}
}

func TestCertificateReloader_LoadFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir, time.Now().Add(-time.Minute), 24*time.Hour)

	obs := &recordingObserver{}
	r := NewCertificateReloader(certFile, keyFile, WithObserver(obs))
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	before := r.Leaf()

	if err := os.WriteFile(certFile, []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Load(); err == nil {
		t.Fatal("Load() of broken certificate succeeded")
	}

	if r.Leaf() != before {
		t.Error("failed reload replaced the serving certificate")
	}

	reloads, _, _ := obs.snapshot()
	if len(reloads) != 2 || reloads[1] == nil {
		t.Errorf("reloads = %v, want success then failure", reloads)
	}
}

func TestCertificateReloader_RejectsExpired(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir, time.Now().Add(-48*time.Hour), 24*time.Hour)

	r := NewCertificateReloader(certFile, keyFile)
	if err := r.Load(); err == nil {
		t.Fatal("Load() of expired certificate succeeded")
	}
}

func TestCertificateReloader_Watch(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestKeyPair(t, dir, time.Now().Add(-time.Minute), 24*time.Hour)

	obs := &recordingObserver{}
	r := NewCertificateReloader(certFile, keyFile, WithObserver(obs), WithDebounce(20*time.Millisecond))
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first := r.Leaf()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := r.Watch(ctx); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Replace the pair with a certificate that has a different expiry.
	writeTestKeyPair(t, dir, time.Now().Add(-time.Minute), 72*time.Hour)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if leaf := r.Leaf(); leaf != first && leaf.SerialNumber.Cmp(first.SerialNumber) != 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("certificate was not reloaded after the files changed")
}

func TestCertificateReloader_WatchMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	r := NewCertificateReloader(filepath.Join(missing, "server.crt"), filepath.Join(missing, "server.key"))

	if err := r.Watch(context.Background()); err == nil {
		t.Error("Watch() on a missing directory succeeded")
	}
}
