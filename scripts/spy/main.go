package main

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/spf13/pflag"

	"github.com/wcharczuk/roleprov/internal/integration"
	"github.com/wcharczuk/roleprov/internal/spy"
)

var (
	flagBindAddr  = pflag.String("bind-addr", ":4568", "The bind address")
	flagUpstream  = pflag.String("upstream", integration.RealUpstream, "The upstream identity service address")
	flagNormalize = pflag.Bool("normalize", false, "If we should replace request ids, role ids, timestamps and account ids in captured responses")
)

func main() {
	pflag.Parse()
	upstream, err := url.Parse(*flagUpstream)
	if err != nil {
		slog.Error("invalid upstream", slog.Any("err", err))
		os.Exit(1)
	}
	do := spy.WriteOutput(os.Stdout)
	if *flagNormalize {
		do = integration.WriteAndNormalizeOutput(os.Stdout)
	}
	s := &http.Server{
		Addr: *flagBindAddr,
		Handler: &spy.Handler{
			Do:   do,
			Next: httputil.NewSingleHostReverseProxy(upstream),
		},
	}
	slog.Info("listening on bind address", slog.String("bind_addr", *flagBindAddr), slog.String("upstream", *flagUpstream))
	if err := s.ListenAndServe(); err != nil {
		slog.Error("server exited", slog.Any("err", err))
		os.Exit(1)
	}
}
