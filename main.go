package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/urfave/cli/v3"

	"github.com/wcharczuk/roleprov/internal/logging"
	"github.com/wcharczuk/roleprov/internal/policy"
	"github.com/wcharczuk/roleprov/internal/provision"
)

func main() {
	if err := newRoot(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

// errPolicyDiffers is returned by policy diff when the file on disk is stale.
var errPolicyDiffers = errors.New("policy file differs from the rendered trust policy")

const (
	flagRoleName         = "role-name"
	flagPolicyFile       = "policy-file"
	flagTrustedAccountID = "trusted-account-id"
	flagPartition        = "partition"
	flagRegion           = "region"
	flagEndpoint         = "endpoint"
	flagAccessKeyID      = "access-key-id"
	flagSecretAccessKey  = "secret-access-key"
	flagLogLevel         = "log-level"
	flagLogFormat        = "log-format"
)

func newRoot(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "roleprov",
		Usage:     "Provision IAM roles that trust another account",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			provisionCommand(stdout, stderr),
			{
				Name:  "policy",
				Usage: "Render and compare trust policies locally",
				Commands: []*cli.Command{
					policyRenderCommand(stdout),
					policyDiffCommand(stdout),
				},
			},
			{
				Name:  "role",
				Usage: "Inspect and remove provisioned roles",
				Commands: []*cli.Command{
					roleDescribeCommand(stdout, stderr),
					roleDeleteCommand(stdout, stderr),
				},
			},
		},
	}
}

func provisionCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "provision",
		Usage: "Write the trust policy to a file then create the role, or update its trust policy if it exists",
		Flags: slices.Concat(
			[]cli.Flag{roleNameFlag(), policyFileFlag(), trustedAccountIDFlag(), partitionFlag()},
			clientFlags(),
			logFlags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := provision.Config{
				RoleName:         c.String(flagRoleName),
				PolicyFilePath:   c.String(flagPolicyFile),
				TrustedAccountID: c.String(flagTrustedAccountID),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := newLogger(c, stderr)
			if err != nil {
				return err
			}
			client, err := newIAMClient(ctx, c)
			if err != nil {
				return err
			}
			p := provision.New(client,
				provision.OptOutput(stdout),
				provision.OptLogger(log),
				provision.OptPartition(c.String(flagPartition)),
			)
			_, err = p.Provision(ctx, cfg.RoleName, cfg.PolicyFilePath, cfg.TrustedAccountID)
			return err
		},
	}
}

func policyRenderCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Print the trust policy for a trusted account",
		Flags: []cli.Flag{trustedAccountIDFlag(), partitionFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := policy.NewTrustPolicy(c.String(flagPartition), c.String(flagTrustedAccountID)).MarshalIndent()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(data))
			return nil
		},
	}
}

func policyDiffCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Compare the policy file with the trust policy for a trusted account",
		Flags: []cli.Flag{policyFileFlag(), trustedAccountIDFlag(), partitionFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			policyFilePath := c.String(flagPolicyFile)
			onDisk, err := os.ReadFile(policyFilePath)
			if err != nil {
				return fmt.Errorf("unable to read policy file: %w", err)
			}
			rendered, err := policy.NewTrustPolicy(c.String(flagPartition), c.String(flagTrustedAccountID)).Marshal()
			if err != nil {
				return err
			}
			diff, err := policy.Diff(onDisk, rendered, policyFilePath, "rendered")
			if err != nil {
				return err
			}
			if diff != "" {
				fmt.Fprint(stdout, diff)
				return errPolicyDiffers
			}
			return nil
		},
	}
}

// roleDescription is the printed form of a remote role.
type roleDescription struct {
	RoleName                 string
	RoleID                   string
	Arn                      string
	Path                     string
	Description              string `json:",omitempty"`
	MaxSessionDuration       int32
	CreateDate               time.Time
	AssumeRolePolicyDocument policy.Document
}

func roleDescribeCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "Print a role and its trust policy",
		Flags: slices.Concat([]cli.Flag{roleNameFlag()}, clientFlags(), logFlags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			if _, err := newLogger(c, stderr); err != nil {
				return err
			}
			client, err := newIAMClient(ctx, c)
			if err != nil {
				return err
			}
			res, err := client.GetRole(ctx, &iam.GetRoleInput{
				RoleName: aws.String(c.String(flagRoleName)),
			})
			if err != nil {
				return err
			}
			decoded, err := policy.DecodeDocument(aws.ToString(res.Role.AssumeRolePolicyDocument))
			if err != nil {
				return err
			}
			doc, err := policy.Parse([]byte(decoded))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(roleDescription{
				RoleName:                 aws.ToString(res.Role.RoleName),
				RoleID:                   aws.ToString(res.Role.RoleId),
				Arn:                      aws.ToString(res.Role.Arn),
				Path:                     aws.ToString(res.Role.Path),
				Description:              aws.ToString(res.Role.Description),
				MaxSessionDuration:       aws.ToInt32(res.Role.MaxSessionDuration),
				CreateDate:               aws.ToTime(res.Role.CreateDate),
				AssumeRolePolicyDocument: doc,
			})
		},
	}
}

func roleDeleteCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a role",
		Flags: slices.Concat([]cli.Flag{roleNameFlag()}, clientFlags(), logFlags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			if _, err := newLogger(c, stderr); err != nil {
				return err
			}
			client, err := newIAMClient(ctx, c)
			if err != nil {
				return err
			}
			roleName := c.String(flagRoleName)
			if _, err := client.DeleteRole(ctx, &iam.DeleteRoleInput{
				RoleName: aws.String(roleName),
			}); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "deleted role %s\n", roleName)
			return nil
		},
	}
}

func roleNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagRoleName,
		Usage:   "The name of the role",
		Value:   provision.DefaultRoleName,
		Sources: cli.EnvVars("ROLEPROV_ROLE_NAME"),
	}
}

func policyFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagPolicyFile,
		Usage:   "The path the trust policy is written to",
		Value:   provision.DefaultPolicyFilePath,
		Sources: cli.EnvVars("ROLEPROV_POLICY_FILE"),
	}
}

func trustedAccountIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagTrustedAccountID,
		Usage:   "The account allowed to assume the role",
		Value:   provision.DefaultTrustedAccountID,
		Sources: cli.EnvVars("ROLEPROV_TRUSTED_ACCOUNT_ID"),
	}
}

func partitionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagPartition,
		Usage:   "The partition of the trusted account principal",
		Value:   policy.DefaultPartition,
		Sources: cli.EnvVars("ROLEPROV_PARTITION"),
	}
}

func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagRegion,
			Usage:   "The aws region to configure the client with",
			Value:   "us-east-1",
			Sources: cli.EnvVars("ROLEPROV_REGION"),
		},
		&cli.StringFlag{
			Name:    flagEndpoint,
			Usage:   "The endpoint to configure the client with (leave blank to use the default)",
			Sources: cli.EnvVars("ROLEPROV_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:  flagAccessKeyID,
			Usage: "A static access key id (leave blank to use the default credential chain)",
		},
		&cli.StringFlag{
			Name:  flagSecretAccessKey,
			Usage: "A static secret access key",
		},
	}
}

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: logging.LevelUsage,
			Value: slog.LevelInfo.String(),
		},
		&cli.StringFlag{
			Name:  flagLogFormat,
			Usage: "The log format (json|text)",
			Value: logging.FormatText,
		},
	}
}

// newLogger sets the default logger from the log flags and returns it.
func newLogger(c *cli.Command, stderr io.Writer) (*slog.Logger, error) {
	log, _, err := logging.New(stderr, c.String(flagLogFormat), c.String(flagLogLevel))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)
	return log, nil
}

func newIAMClient(ctx context.Context, c *cli.Command) (*iam.Client, error) {
	options := []func(*config.LoadOptions) error{
		config.WithRegion(c.String(flagRegion)),
	}
	if accessKeyID := c.String(flagAccessKeyID); accessKeyID != "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, c.String(flagSecretAccessKey), ""),
		))
	}
	sess, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, err
	}
	return iam.NewFromConfig(sess, func(o *iam.Options) {
		if endpoint := c.String(flagEndpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.Retryer = aws.NopRetryer{}
		o.AppID = "roleprov"
	}), nil
}
