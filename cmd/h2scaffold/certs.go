package main

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/h2scaffold/pkg/cli"
	"mercator-hq/h2scaffold/pkg/config"
	sectls "mercator-hq/h2scaffold/pkg/security/tls"
)

func newCertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Manage TLS certificates",
		Long: `Manage the certificate served by the TLS listener.

Subcommands:
  generate - Generate a self-signed certificate for development
  validate - Validate a certificate and key pair

Examples:
  # Generate certs/server.crt and certs/server.key for localhost
  h2scaffold certs generate

  # Validate the pair the server will load
  h2scaffold certs validate`,
	}

	cmd.AddCommand(newCertsGenerateCmd(), newCertsValidateCmd())
	return cmd
}

type generateFlags struct {
	hosts    string
	org      string
	validity int
	certFile string
	keyFile  string
	force    bool
}

func newCertsGenerateCmd() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate self-signed certificate",
		Long: `Generate a self-signed ECDSA certificate and private key.

The files are written to the paths the server loads by default. The private
key is written with 0600 permissions. Self-signed certificates are for
development only.

Examples:
  h2scaffold certs generate --host "localhost,127.0.0.1,app.local"
  h2scaffold certs generate --validity 30 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateCertificate(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.hosts, "host", "localhost,127.0.0.1", "comma-separated hostnames and IPs")
	cmd.Flags().StringVar(&flags.org, "org", "h2scaffold", "organization name")
	cmd.Flags().IntVar(&flags.validity, "validity", 365, "validity in days")
	cmd.Flags().StringVar(&flags.certFile, "cert", config.DefaultTLSCertFile, "certificate output path")
	cmd.Flags().StringVar(&flags.keyFile, "key", config.DefaultTLSKeyFile, "private key output path")
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite existing files")

	return cmd
}

func generateCertificate(out io.Writer, flags *generateFlags) error {
	if flags.validity <= 0 {
		return fmt.Errorf("invalid validity: %d days (must be positive)", flags.validity)
	}

	if !flags.force {
		for _, path := range []string{flags.certFile, flags.keyFile} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to check %s: %w", path, err)
			}
		}
	}

	hosts := strings.Split(flags.hosts, ",")
	certPEM, keyPEM, err := sectls.GenerateSelfSigned(sectls.SelfSignedOptions{
		Hosts:        hosts,
		Organization: flags.org,
		Validity:     time.Duration(flags.validity) * 24 * time.Hour,
	})
	if err != nil {
		return cli.NewCommandError("certs generate", err)
	}

	if err := sectls.WriteKeyPair(flags.certFile, flags.keyFile, certPEM, keyPEM); err != nil {
		return cli.NewCommandError("certs generate", err)
	}

	fmt.Fprintf(out, "✓ Certificate written to %s\n", flags.certFile)
	fmt.Fprintf(out, "✓ Private key written to %s\n", flags.keyFile)
	fmt.Fprintf(out, "  Hosts: %s\n", strings.Join(hosts, ", "))
	fmt.Fprintf(out, "  Valid for %d days\n", flags.validity)
	return nil
}

type validateFlags struct {
	certFile    string
	keyFile     string
	warningDays int
	output      string
}

// validationReport is the result of certs validate.
type validationReport struct {
	Certificate     *sectls.CertificateInfo `json:"certificate"`
	KeyMatches      *bool                   `json:"key_matches,omitempty"`
	Valid           bool                    `json:"valid"`
	DaysUntilExpiry int                     `json:"days_until_expiry"`
	Warning         string                  `json:"warning,omitempty"`
	Error           string                  `json:"error,omitempty"`
}

func (r validationReport) RenderText(w io.Writer) error {
	info := r.Certificate
	fmt.Fprintf(w, "Subject:     %s\n", info.Subject)
	fmt.Fprintf(w, "Issuer:      %s\n", info.Issuer)
	fmt.Fprintf(w, "Serial:      %s\n", info.SerialNumber)
	fmt.Fprintf(w, "Not Before:  %s\n", info.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(w, "Not After:   %s\n", info.NotAfter.Format(time.RFC3339))
	if len(info.DNSNames) > 0 {
		fmt.Fprintf(w, "DNS Names:   %s\n", strings.Join(info.DNSNames, ", "))
	}
	if len(info.IPAddresses) > 0 {
		fmt.Fprintf(w, "IPs:         %s\n", strings.Join(info.IPAddresses, ", "))
	}
	fmt.Fprintf(w, "Key:         %s\n\n", info.PublicKeyAlgorithm)

	if r.KeyMatches != nil {
		if *r.KeyMatches {
			fmt.Fprintln(w, "✓ Certificate and key match")
		} else {
			fmt.Fprintln(w, "✗ Certificate and key do NOT match")
		}
	}
	if r.Valid {
		fmt.Fprintf(w, "✓ Certificate is valid (%d days remaining)\n", r.DaysUntilExpiry)
	} else if r.Error != "" {
		fmt.Fprintf(w, "✗ %s\n", r.Error)
	}
	if r.Warning != "" {
		fmt.Fprintf(w, "⚠ %s\n", r.Warning)
	}
	return nil
}

func newCertsValidateCmd() *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate certificate and key",
		Long: `Validate a TLS certificate and, optionally, its private key.

Checks performed:
  - Certificate parses and is inside its validity window
  - Certificate and key pair match (when --key is set)
  - Expiry warning when fewer than --warning-days remain

Exits with status 1 when any check fails.

Examples:
  h2scaffold certs validate
  h2scaffold certs validate --cert server.crt --key server.key --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateCertificate(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.certFile, "cert", config.DefaultTLSCertFile, "certificate file")
	cmd.Flags().StringVar(&flags.keyFile, "key", config.DefaultTLSKeyFile, "private key file (empty skips the pair check)")
	cmd.Flags().IntVar(&flags.warningDays, "warning-days", config.DefaultExpiryWarningDays, "warn when fewer days remain")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "text", "output format (text, json)")

	return cmd
}

func validateCertificate(out io.Writer, flags *validateFlags) error {
	format, err := cli.ParseOutputFormat(flags.output)
	if err != nil {
		return err
	}

	cert, err := sectls.LoadCertificateFile(flags.certFile)
	if err != nil {
		return cli.NewCommandError("certs validate", err)
	}

	now := time.Now()
	report := validationReport{Certificate: sectls.ExtractCertificateInfo(cert)}

	var failures []error
	if flags.keyFile != "" {
		_, pairErr := tls.LoadX509KeyPair(flags.certFile, flags.keyFile)
		matches := pairErr == nil
		report.KeyMatches = &matches
		if pairErr != nil {
			failures = append(failures, fmt.Errorf("certificate and key do not match: %w", pairErr))
		}
	}

	if err := sectls.ValidateX509Certificate(cert, now); err != nil {
		report.Error = err.Error()
		failures = append(failures, err)
	} else {
		report.Valid = true
		report.DaysUntilExpiry, report.Warning = sectls.CheckCertificateExpiration(cert, now, flags.warningDays)
	}

	if err := cli.Write(out, format, report); err != nil {
		return err
	}

	if len(failures) > 0 {
		return cli.NewCommandError("certs validate", errors.Join(failures...))
	}
	return nil
}
