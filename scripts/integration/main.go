package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/wcharczuk/roleprov/internal/iamlite"
	"github.com/wcharczuk/roleprov/internal/integration"
	"github.com/wcharczuk/roleprov/internal/provision"
)

var (
	flagAWSRegion  = pflag.String("region", iamlite.DefaultRegion, "The AWS region")
	flagLocal      = pflag.Bool("local", false, "If we should target an in-process iamlite instance when saving")
	flagMode       = pflag.String("mode", string(integration.ModeVerify), "The integration mode (save|verify)")
	flagShowOutput = pflag.Bool("show-output", false, "If we should print captured requests and provisioning output")
	flagOutputPath = pflag.String("output-path", "testdata/integration", "The directory recordings are saved to and verified from")
	flagScenarios  = pflag.StringSlice("scenario", []string{"create"}, fmt.Sprintf(
		"The integration test scenarios to run (%s)",
		strings.Join(slices.Sorted(maps.Keys(scenarios)), "|"),
	))
)

// trustedAccountID and otherTrustedAccountID only appear in trust policies;
// neither needs to be a real account.
const (
	trustedAccountID      = "123456789012"
	otherTrustedAccountID = "210987654321"
)

func main() {
	pflag.Parse()
	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt)
	defer done()

	it := integration.Suite{
		Local:      *flagLocal,
		Region:     *flagAWSRegion,
		Mode:       integration.Mode(*flagMode),
		ShowOutput: *flagShowOutput,
		OutputPath: *flagOutputPath,
	}
	for _, scenario := range *flagScenarios {
		fn, ok := scenarios[scenario]
		if !ok {
			slog.Warn("skipping unknown scenario", slog.String("scenario", scenario))
			continue
		}
		slog.Info("running integration test", slog.String("scenario", scenario), slog.String("mode", string(it.ModeOrDefault())))
		if err := it.Run(ctx, scenario, fn); err != nil {
			maybeFatal(err)
		}
	}
}

var scenarios = map[string]func(*integration.Run){
	"create":    create,
	"update":    update,
	"malformed": malformed,
	"rerun":     rerun,
}

func create(it *integration.Run) {
	roleName := it.RoleName()
	res := it.Provision(roleName, trustedAccountID)
	it.Expect(res.Action == provision.ActionCreated, "expected role to be created, was %s", res.Action)
	it.Expect(reflect.DeepEqual(it.GetRole(roleName), it.PolicyFile()), "expected role trust policy to match the policy file")
}

func update(it *integration.Run) {
	roleName := it.RoleName()
	_ = it.Provision(roleName, trustedAccountID)
	res := it.Provision(roleName, otherTrustedAccountID)
	it.Expect(res.Action == provision.ActionUpdated, "expected role to be updated, was %s", res.Action)
	it.Expect(reflect.DeepEqual(it.GetRole(roleName), it.PolicyFile()), "expected role trust policy to match the policy file")
}

func malformed(it *integration.Run) {
	roleName := it.RoleName()
	it.ExpectFailure(func() {
		_ = it.Provision(roleName, "not-an-account")
	})
	it.ExpectFailure(func() {
		_ = it.GetRole(roleName)
	})
}

func rerun(it *integration.Run) {
	roleName := it.RoleName()
	first := it.Provision(roleName, trustedAccountID)
	second := it.Provision(roleName, trustedAccountID)
	it.Expect(first.Document == second.Document, "expected reruns to render the same document")
	it.Expect(second.Action == provision.ActionUpdated, "expected rerun to update, was %s", second.Action)
}

func maybeFatal(err error) {
	if err != nil {
		slog.Error("fatal error", slog.Any("err", err))
		os.Exit(1)
	}
}
