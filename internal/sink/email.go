package sink

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/seclog/seclog/internal/model"
	"golang.org/x/net/proxy"
)

// DefaultEmailTimeout bounds the whole SMTP exchange for one alert.
// Mail servers are the slowest, most failure-prone output; a slow or
// unreachable server must not hang the logging caller.
const DefaultEmailTimeout = 10 * time.Second

// subjectSummaryLength caps the message excerpt carried in the subject.
const subjectSummaryLength = 80

// EmailSettings holds the SMTP endpoint and message composition options
// for the email sink. Validation happens in the config package before a
// sink is constructed.
type EmailSettings struct {
	// Host and Port locate the SMTP server.
	Host string
	Port int

	// Username and Password are the PLAIN auth credentials.
	// Empty username disables authentication.
	Username string
	Password string

	// From is the envelope sender. Recipients receive one message per
	// qualifying record; no batching.
	From       string
	Recipients []string

	// UseTLS upgrades the connection with STARTTLS after the greeting.
	UseTLS bool

	// SubjectPrefix is prepended to every alert subject.
	SubjectPrefix string

	// MinLevel gates which records trigger an alert.
	MinLevel model.Level

	// Timeout bounds the full send, dial included.
	Timeout time.Duration

	// ProxyAddress optionally routes the connection through a SOCKS5
	// proxy in "host:port" form. Empty means a direct connection.
	ProxyAddress string
}

// Transport delivers a composed mail message. It exists as an interface
// so tests can simulate delivery failures without a mail server.
type Transport interface {
	// Send delivers msg from from to every recipient, honoring ctx for
	// cancellation and deadline.
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// EmailSink sends one alert message per qualifying record.
type EmailSink struct {
	settings  EmailSettings
	transport Transport
}

// EmailSinkOption configures an EmailSink.
type EmailSinkOption func(*EmailSink)

// WithTransport replaces the SMTP transport, mainly for tests.
func WithTransport(t Transport) EmailSinkOption {
	return func(s *EmailSink) {
		if t != nil {
			s.transport = t
		}
	}
}

// NewEmailSink creates an email sink for the given settings.
func NewEmailSink(settings EmailSettings, opts ...EmailSinkOption) *EmailSink {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultEmailTimeout
	}
	s := &EmailSink{
		settings:  settings,
		transport: &smtpTransport{settings: settings},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the sink name.
func (s *EmailSink) Name() string {
	return "email"
}

// MinLevel returns the sink's level threshold.
func (s *EmailSink) MinLevel() model.Level {
	return s.settings.MinLevel
}

// Write composes and sends one alert for the record. The send is bounded
// by the configured timeout; the Manager downgrades any returned error to
// an application-log warning.
func (s *EmailSink) Write(rec *model.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.settings.Timeout)
	defer cancel()

	msg, err := s.compose(rec)
	if err != nil {
		return err
	}
	if err := s.transport.Send(ctx, s.settings.From, s.settings.Recipients, msg); err != nil {
		return fmt.Errorf("email alert delivery failed: %w", err)
	}
	return nil
}

// compose builds the RFC 5322 message for one record. The body carries
// the serialized record so the alert round-trips into the same structured
// form as the file sinks.
func (s *EmailSink) compose(rec *model.Record) ([]byte, error) {
	line, err := rec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record for email: %w", err)
	}

	summary := rec.Message
	if runes := []rune(summary); len(runes) > subjectSummaryLength {
		summary = string(runes[:subjectSummaryLength]) + "..."
	}

	subject := strings.TrimSpace(s.settings.SubjectPrefix + " " + rec.Level.String() + ": " + summary)

	var sb strings.Builder
	sb.WriteString("From: " + s.settings.From + "\r\n")
	sb.WriteString("To: " + strings.Join(s.settings.Recipients, ", ") + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Date: " + rec.Timestamp.Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString("Log alert at level " + rec.Level.String() + ".\r\n\r\n")
	sb.WriteString(string(line))
	sb.WriteString("\r\n")
	return []byte(sb.String()), nil
}

// Close is a no-op; connections are per-message.
func (s *EmailSink) Close() error {
	return nil
}

// smtpTransport is the production Transport: it dials the configured
// server (directly or through a SOCKS5 proxy), optionally upgrades to
// TLS, authenticates, and submits the message.
type smtpTransport struct {
	settings EmailSettings
}

// Send implements Transport.
func (t *smtpTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(t.settings.Host, strconv.Itoa(t.settings.Port))

	conn, err := t.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	// The context deadline bounds the whole exchange, not just the dial.
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return err
		}
	}

	client, err := smtp.NewClient(conn, t.settings.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer client.Close()

	if t.settings.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: t.settings.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if t.settings.Username != "" {
		auth := smtp.PlainAuth("", t.settings.Username, t.settings.Password, t.settings.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT %s failed: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp body write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp body close failed: %w", err)
	}

	return client.Quit()
}

// dial connects to addr directly or through the configured SOCKS5 proxy.
func (t *smtpTransport) dial(ctx context.Context, addr string) (net.Conn, error) {
	if t.settings.ProxyAddress == "" {
		var d net.Dialer
		return d.DialContext(ctx, "tcp", addr)
	}

	socks, err := proxy.SOCKS5("tcp", t.settings.ProxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to build SOCKS5 dialer: %w", err)
	}
	// x/net's SOCKS5 dialer supports contexts through ContextDialer.
	if cd, ok := socks.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", addr)
	}
	return socks.Dial("tcp", addr)
}
