package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/jonboulle/clockwork"

	internalhttputil "github.com/wcharczuk/roleprov/internal/httputil"
	"github.com/wcharczuk/roleprov/internal/iamlite"
	"github.com/wcharczuk/roleprov/internal/spy"
)

// Suite runs integration scenarios through a spy proxy, either saving the
// exchanges or verifying them against a saved recording.
type Suite struct {
	Local      bool
	Region     string
	Mode       Mode
	Clock      clockwork.Clock
	Log        *slog.Logger
	ShowOutput bool
	OutputPath string
}

func (s *Suite) OutputPathOrDefault() string {
	if s.OutputPath != "" {
		return s.OutputPath
	}
	return "testdata/integration"
}

func (s *Suite) RegionOrDefault() string {
	if s.Region != "" {
		return s.Region
	}
	return iamlite.DefaultRegion
}

func (s *Suite) ModeOrDefault() Mode {
	if s.Mode != "" {
		return s.Mode
	}
	return ModeVerify
}

func (s *Suite) ClockOrDefault() clockwork.Clock {
	if s.Clock != nil {
		return s.Clock
	}
	return clockwork.NewRealClock()
}

func (s *Suite) LogOrDefault() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// RecordingPath returns the path of the recording for a given scenario id.
func (s *Suite) RecordingPath(id string) string {
	if s.Local && s.ModeOrDefault() == ModeSave {
		return filepath.Join(s.OutputPathOrDefault(), fmt.Sprintf("%s.local.jsonl", id))
	}
	return filepath.Join(s.OutputPathOrDefault(), fmt.Sprintf("%s.jsonl", id))
}

type Mode string

const (
	ModeUnknown Mode = ""
	ModeSave    Mode = "save"
	ModeVerify  Mode = "verify"
)

// RealUpstream is the global identity service endpoint.
const RealUpstream = "https://" + iamlite.DefaultHost

func (s *Suite) Run(ctx context.Context, id string, fn func(*Run)) error {
	spyListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	defer spyListener.Close()

	var upstream string
	var sess aws.Config
	var verifier *Verifier
	var spyHandler func(spy.Request)

	switch s.ModeOrDefault() {
	case ModeSave:
		if err := os.MkdirAll(s.OutputPathOrDefault(), 0755); err != nil {
			return fmt.Errorf("unable to create output path dir: %w", err)
		}
		outputFile, err := os.Create(s.RecordingPath(id))
		if err != nil {
			return fmt.Errorf("unable to create output file for write: %w", err)
		}
		defer outputFile.Close()
		if s.ShowOutput {
			spyHandler = WriteAndNormalizeOutput(io.MultiWriter(outputFile, os.Stdout))
		} else {
			spyHandler = WriteAndNormalizeOutput(outputFile)
		}
		if s.Local {
			sess, err = s.localConfig(ctx)
			if err != nil {
				return err
			}
			var stopLocal func()
			upstream, stopLocal, err = s.startLocal()
			if err != nil {
				return err
			}
			defer stopLocal()
		} else {
			sess, err = config.LoadDefaultConfig(ctx, config.WithRegion(s.RegionOrDefault()))
			if err != nil {
				return err
			}
			upstream = RealUpstream
		}
	case ModeVerify:
		sess, err = s.localConfig(ctx)
		if err != nil {
			return err
		}
		var stopLocal func()
		upstream, stopLocal, err = s.startLocal()
		if err != nil {
			return err
		}
		defer stopLocal()
		verifier, err = NewVerifier(s.RecordingPath(id))
		if err != nil {
			return err
		}
		defer verifier.Close()
		spyHandler = verifier.HandleRequest
	default:
		return fmt.Errorf("unknown mode %s", s.ModeOrDefault())
	}

	parsedUpstream, err := url.Parse(upstream)
	if err != nil {
		return fmt.Errorf("invalid upstream: %w", err)
	}
	spyServer := &http.Server{
		Handler: &spy.Handler{
			Do:   spyHandler,
			Next: httputil.NewSingleHostReverseProxy(parsedUpstream),
		},
	}
	go func() { _ = spyServer.Serve(spyListener) }()
	defer spyServer.Shutdown(context.Background())

	policyDir, err := os.MkdirTemp("", "roleprov-integration-*")
	if err != nil {
		return fmt.Errorf("unable to create policy file dir: %w", err)
	}
	defer os.RemoveAll(policyDir)

	iamClient := iam.NewFromConfig(sess, func(o *iam.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("http://%s", spyListener.Addr().String()))
		o.Retryer = aws.NopRetryer{}
	})
	it := &Run{
		id:         id,
		ctx:        ctx,
		iamClient:  iamClient,
		log:        s.LogOrDefault(),
		policyPath: filepath.Join(policyDir, "policy.json"),
	}
	if s.ShowOutput {
		it.output = os.Stdout
	} else {
		it.output = io.Discard
	}
	if err := runScenario(it, fn); err != nil {
		return err
	}
	if verifier != nil {
		// all captured exchanges have been handed to the verifier once the spy drains
		_ = spyServer.Shutdown(ctx)
		return verifier.Finish()
	}
	return nil
}

func runScenario(it *Run, fn func(*Run)) (err error) {
	defer func() {
		it.Cleanup()
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn(it)
	return
}

func (s *Suite) localConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(s.RegionOrDefault()),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(iamlite.DefaultAccountID, "test-secret-key", "test-secret-key-token"),
		),
	)
}

// startLocal starts an in-process emulator and returns its base url and a
// function that stops it.
func (s *Suite) startLocal() (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	server := iamlite.NewServer().WithClock(s.ClockOrDefault())
	localServer := &http.Server{
		Handler: internalhttputil.Logged(server.Router()),
	}
	go func() { _ = localServer.Serve(listener) }()
	stop := func() { _ = localServer.Shutdown(context.Background()) }
	return fmt.Sprintf("http://%s", listener.Addr().String()), stop, nil
}
