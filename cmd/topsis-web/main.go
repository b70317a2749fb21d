package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelkehle/topsis-agency/internal/config"
	"github.com/joelkehle/topsis-agency/internal/mailer"
	"github.com/joelkehle/topsis-agency/internal/report"
	"github.com/joelkehle/topsis-agency/internal/telemetry"
	"github.com/joelkehle/topsis-agency/internal/webform"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $TOPSIS_CONFIG)")
		addr       = flag.String("addr", "", "listen address (overrides config)")
		uploadDir  = flag.String("upload-dir", "", "directory for per-run results (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *uploadDir != "" {
		cfg.UploadDir = *uploadDir
	}

	logger, cleanup := config.SetupLogger(os.Stderr, cfg.LogFile, cfg.Level())
	defer cleanup()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Error("tracing setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	opts := webform.Options{
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	}
	if cfg.MailConfigured() {
		sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailAddress,
			Password: cfg.EmailPassword,
		})
		if err != nil {
			logger.Error("smtp sender", "error", err)
			os.Exit(1)
		}
		opts.Sender = sender
	} else {
		logger.Warn("EMAIL_ADDRESS/EMAIL_PASSWORD not set; form submissions will fail")
	}
	if cfg.AttachPDF {
		if r := report.NewChromiumPDFRenderer(cfg.ChromePath); r.Available() {
			opts.PDFRenderer = r
		} else {
			logger.Info("no chromium found; emails will not include a pdf report")
		}
	}
	if cfg.NarrativeEnabled() {
		n, err := report.NewNarrator(cfg.AnthropicAPIKey, cfg.NarrativeModel)
		if err != nil {
			logger.Warn("narrative disabled", "error", err)
		} else {
			opts.Narrator = n
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           webform.NewServer(opts),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info("topsis web listening", "addr", cfg.ListenAddr, "upload_dir", cfg.UploadDir, "mail", opts.Sender != nil, "pdf", opts.PDFRenderer != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
