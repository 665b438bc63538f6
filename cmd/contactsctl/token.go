package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/contacts/internal/auth"
)

// errTokenInvalid is returned by token verify for any rejected token.
var errTokenInvalid = errors.New("token invalid")

func (r *Runner) tokenService(cmd *cli.Command) (*auth.TokenService, error) {
	secret := cmd.String("secret")
	if secret == "" {
		return nil, fmt.Errorf("a signing secret is required (--secret or CONTACTS_JWT_SECRET)")
	}
	return auth.NewTokenService([]byte(secret))
}

// IssueToken prints a fresh access token for the given principal.
func (r *Runner) IssueToken(_ context.Context, cmd *cli.Command) error {
	principal := cmd.Args().First()
	if principal == "" {
		return fmt.Errorf("a principal is required")
	}

	tokens, err := r.tokenService(cmd)
	if err != nil {
		return err
	}

	token, err := tokens.Issue(principal)
	if err != nil {
		return err
	}
	r.logger.Info("token issued", "principal", principal, "ttl", auth.TokenTTL)

	return r.writePlainln("%s", token)
}

// VerifyToken prints the principal a token proves, or fails.
func (r *Runner) VerifyToken(_ context.Context, cmd *cli.Command) error {
	token := cmd.Args().First()
	if token == "" {
		return fmt.Errorf("a token is required")
	}

	tokens, err := r.tokenService(cmd)
	if err != nil {
		return err
	}

	principal, ok := tokens.Verify(token)
	if !ok {
		return errTokenInvalid
	}

	return r.writePlainln("%s", principal)
}

func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue and verify session access tokens",
		Commands: []*cli.Command{
			{
				Name:      "issue",
				Usage:     "Issue a token for a principal",
				ArgsUsage: "PRINCIPAL",
				Flags:     []cli.Flag{newSecretFlag()},
				Action:    r.IssueToken,
			},
			{
				Name:      "verify",
				Usage:     "Verify a token and print its principal",
				ArgsUsage: "TOKEN",
				Flags:     []cli.Flag{newSecretFlag()},
				Action:    r.VerifyToken,
			},
		},
	}
}

func newSecretFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "secret",
		Usage:   "HMAC signing secret",
		Sources: cli.EnvVars("CONTACTS_JWT_SECRET", "JWT_SECRET"),
	}
}
