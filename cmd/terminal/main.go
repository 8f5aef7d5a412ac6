package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/config"
	"github.com/BIDMYLIFE/POS/internal/logging"
	"github.com/BIDMYLIFE/POS/internal/posclient"
	"github.com/BIDMYLIFE/POS/internal/terminal"
	"github.com/BIDMYLIFE/POS/internal/terminalapi"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := validateSecurityConfig(cfg); err != nil {
		logger.Fatal("invalid security configuration", zap.Error(err))
	}

	client := posclient.New(cfg.BackendURL, cfg.BackendTimeout(), logger)
	term := terminal.New(client, client, terminal.Options{
		RecentLimit: cfg.RecentTransactions,
		Logger:      logger,
	})

	// The catalog loads once in the background; a failure leaves the
	// terminal running with an empty catalog.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
		defer cancel()
		if err := term.LoadCatalog(ctx); err != nil {
			logger.Warn("terminal started without a catalog", zap.String("backend_url", cfg.BackendURL))
		}
	}()

	auth, err := terminalapi.NewAuthManager(cfg.AuthSecret, cfg.AccessTokenTTL(), cfg.CashierUsername, cfg.CashierPassword)
	if err != nil {
		logger.Fatal("auth setup failed", zap.Error(err))
	}
	api := terminalapi.New(term, auth, cfg.AllowedOrigin, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.BackendTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("terminal listening", zap.String("addr", cfg.Address()), zap.String("session_id", term.SessionID()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("terminal stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if strings.TrimSpace(cfg.CashierUsername) == "" {
		return fmt.Errorf("CASHIER_USERNAME must not be empty")
	}
	if len(cfg.CashierPassword) < 8 {
		return fmt.Errorf("CASHIER_PASSWORD must be set and at least 8 characters")
	}
	if err := validatePasswordStrength(cfg.CashierPassword); err != nil {
		return fmt.Errorf("CASHIER_PASSWORD is too weak: %w", err)
	}
	return nil
}

// validatePasswordStrength rejects one repeated character and well-known
// defaults.
func validatePasswordStrength(password string) error {
	known := map[string]bool{
		"password": true, "12345678": true, "cashier123": true, "admin123": true,
		"qwertyui": true, "password1": true, "87654321": true,
	}
	if known[strings.ToLower(password)] {
		return fmt.Errorf("common password not allowed")
	}

	allSame := true
	for i := 1; i < len(password); i++ {
		if password[i] != password[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Errorf("repeated-character password not allowed")
	}
	return nil
}
