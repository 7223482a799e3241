package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wcharczuk/roleprov/internal/httputil"
	"github.com/wcharczuk/roleprov/internal/iamlite"
	"github.com/wcharczuk/roleprov/internal/logging"
)

var (
	flagBindAddr            = pflag.String("bind-addr", ":4567", "The server bind address")
	flagShutdownGracePeriod = pflag.Duration("shutdown-grace-period", 30*time.Second, "The server shutdown grace period")
	flagRateLimit           = pflag.Float64("rate-limit", 0, "The requests per second allowed across all accounts (0 disables limiting)")
	flagRateLimitBurst      = pflag.Int("rate-limit-burst", 10, "The request burst allowed when rate limiting")
	flagStatsInterval       = pflag.Duration("stats-interval", 30*time.Second, "How often role counts are logged at debug level")
	flagLogFormat           = pflag.String("log-format", logging.FormatJSON, "The log format (json|text)")
	flagLogLevel            = pflag.String("log-level", slog.LevelInfo.String(), logging.LevelUsage)
)

func main() {
	pflag.Parse()

	//
	// logger setup
	//
	log, logLeveler, err := logging.New(os.Stdout, *flagLogFormat, *flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(log)
	slog.Info("using log level", slog.String("log_level", logLeveler.Level().String()))

	//
	// server setup
	//
	var options []iamlite.ServerOption
	if *flagRateLimit > 0 {
		options = append(options, iamlite.OptRateLimit(rate.Limit(*flagRateLimit), *flagRateLimitBurst))
	}
	server := iamlite.NewServer(options...)

	httpSrv := &http.Server{
		Addr:    *flagBindAddr,
		Handler: httputil.Logged(server.Router()),
	}
	group, groupCtx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		if *flagStatsInterval <= 0 {
			return nil
		}
		t := time.NewTicker(*flagStatsInterval)
		defer t.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-t.C:
				printStatistics(server)
			}
		}
	})
	group.Go(func() error {
		slog.Info("server listening", slog.String("addr", *flagBindAddr))
		return httpSrv.ListenAndServe()
	})
	group.Go(func() error {
		return logging.HandleLevelSignals(groupCtx, logLeveler)
	})
	group.Go(func() error {
		ctx, done := signal.NotifyContext(groupCtx, syscall.SIGINT, syscall.SIGTERM)
		defer done()
		<-ctx.Done()
		shutdownContext, shutdownComplete := context.WithTimeout(context.Background(), *flagShutdownGracePeriod)
		defer shutdownComplete()
		return httpSrv.Shutdown(shutdownContext)
	})
	if err := group.Wait(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Info("server exiting with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func printStatistics(server *iamlite.Server) {
	for accountID := range server.Accounts().EachAccount() {
		roles, ok := server.Accounts().GetRoles(accountID)
		if !ok {
			continue
		}
		slog.Debug(
			"statistics",
			slog.String("account_id", accountID),
			slog.Int("num_roles", roles.Len()),
		)
	}
}
