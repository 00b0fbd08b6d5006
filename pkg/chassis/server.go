// Package chassis runs the HTTP handler on TCP and, optionally, HTTP/3 on UDP.
//
// Both listeners share the same port:
//   - TCP -> HTTP/1.1 + HTTP/2, over TLS unless TLS is disabled
//   - UDP -> QUIC with ALPN "h3" (same handler as TCP)
//
// When HTTP/3 is on, responses carry an Alt-Svc header so HTTP/2 clients can
// upgrade. Without cert/key files a self-signed ECDSA P-256 cert is generated.
package chassis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

const (
	defaultIdleTimeout = 2 * time.Minute
	defaultKeepAlive   = 30 * time.Second
)

// Config holds configuration for the chassis server.
type Config struct {
	Addr     string       // listen address, TCP and UDP
	TLS      bool         // serve TLS on TCP; required for HTTP3
	HTTP3    bool         // also serve HTTP/3 on UDP
	CertFile string       // production cert path
	KeyFile  string       // production key path
	DNSNames []string     // names for the self-signed cert
	Handler  http.Handler // API router
	Logger   *slog.Logger
}

// Server is the chassis.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	tlsCfg    *tls.Config
	tcpServer *http.Server
	h3Server  *http3.Server
	quicLn    *quic.Listener
	mu        sync.Mutex
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HTTP3 && !cfg.TLS {
		return nil, errors.New("http3 requires tls")
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}
	if !cfg.TLS {
		return s, nil
	}

	var err error
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		s.tlsCfg, err = ProductionTLSConfig(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load TLS cert: %w", err)
		}
		cfg.Logger.Info("TLS: production certs loaded")
	} else {
		s.tlsCfg, err = DevelopmentTLSConfig(cfg.DNSNames...)
		if err != nil {
			return nil, fmt.Errorf("generate dev TLS: %w", err)
		}
		cfg.Logger.Info("TLS: self-signed dev cert generated", "names", cfg.DNSNames)
	}
	return s, nil
}

// securityHeaders wraps an http.Handler and adds standard security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// altSvcMiddleware advertises HTTP/3 on the same port.
func altSvcMiddleware(addr string, next http.Handler) http.Handler {
	_, port, _ := net.SplitHostPort(addr)
	if port == "" {
		port = "8420"
	}
	altSvc := fmt.Sprintf(`h3=":%s"; ma=86400`, port)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", altSvc)
		next.ServeHTTP(w, r)
	})
}

// Handler returns the handler as served, with chassis middleware applied.
func (s *Server) Handler() http.Handler {
	h := s.cfg.Handler
	if s.cfg.HTTP3 {
		h = altSvcMiddleware(s.cfg.Addr, h)
	}
	return securityHeaders(h)
}

// Start runs the listeners until ctx is done or one of them fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	handler := s.Handler()

	s.tcpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	var tcpLn net.Listener
	var err error
	if s.tlsCfg != nil {
		tcpTLS := s.tlsCfg.Clone()
		tcpTLS.NextProtos = []string{"h2", "http/1.1"}
		s.tcpServer.TLSConfig = tcpTLS
		tcpLn, err = tls.Listen("tcp", s.cfg.Addr, tcpTLS)
	} else {
		tcpLn, err = net.Listen("tcp", s.cfg.Addr)
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("TCP listen: %w", err)
	}

	if s.cfg.HTTP3 {
		qCfg := &quic.Config{
			MaxStreamReceiveWindow:     10 * 1024 * 1024,
			MaxConnectionReceiveWindow: 50 * 1024 * 1024,
			MaxIdleTimeout:             defaultIdleTimeout,
			KeepAlivePeriod:            defaultKeepAlive,
		}
		ln, err := quic.ListenAddr(s.cfg.Addr, http3.ConfigureTLSConfig(s.tlsCfg), qCfg)
		if err != nil {
			tcpLn.Close()
			s.mu.Unlock()
			return fmt.Errorf("QUIC listen: %w", err)
		}
		s.quicLn = ln
		s.h3Server = &http3.Server{Handler: handler}
	}
	s.mu.Unlock()

	s.logger.Info("chassis started", "addr", s.cfg.Addr, "tls", s.tlsCfg != nil, "http3", s.cfg.HTTP3)

	errCh := make(chan error, 2)
	go func() {
		if err := s.tcpServer.Serve(tcpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("TCP: %w", err)
		}
	}()
	if s.h3Server != nil {
		go func() {
			if err := s.h3Server.ServeListener(s.quicLn); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
				errCh <- fmt.Errorf("HTTP/3: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts down both listeners.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("chassis stopping")

	var errs []error
	if s.tcpServer != nil {
		errs = append(errs, s.tcpServer.Shutdown(ctx))
	}
	if s.h3Server != nil {
		errs = append(errs, s.h3Server.Shutdown(ctx))
	}
	if s.quicLn != nil {
		errs = append(errs, s.quicLn.Close())
	}

	s.logger.Info("chassis stopped")
	return errors.Join(errs...)
}
