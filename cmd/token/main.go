// Command token issues and verifies session tokens with the secret the API
// is configured with.
//
//	token issue -id 1 -email a@b.co
//	token verify -token <jwt>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopkit/accounts-api/internal/core/domain"
	"github.com/shopkit/accounts-api/internal/core/service"
	"github.com/shopkit/accounts-api/internal/infrastructure/config"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.Accounts.TokenTTL)

	switch args[0] {
	case "issue":
		return issue(tokens, args[1:], stdout, stderr)
	case "verify":
		return verify(tokens, args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func issue(tokens *service.TokenService, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.Int64("id", 0, "user id")
	email := fs.String("email", "", "user email")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *id <= 0 || *email == "" {
		fmt.Fprintln(stderr, "issue: -id and -email are required")
		return 2
	}

	signed, expiresAt, err := tokens.Issue(&domain.User{ID: *id, Email: *email})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, signed)
	fmt.Fprintf(stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
	return 0
}

func verify(tokens *service.TokenService, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	token := fs.String("token", "", "token to verify")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *token == "" {
		fmt.Fprintln(stderr, "verify: -token is required")
		return 2
	}

	claims, err := tokens.Verify(*token)
	if err != nil {
		fmt.Fprintf(stderr, "invalid token: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "id:         %d\n", claims.ID)
	fmt.Fprintf(stdout, "email:      %s\n", claims.Email)
	fmt.Fprintf(stdout, "issued at:  %s\n", claims.IssuedAt.Time.Format(time.RFC3339))
	fmt.Fprintf(stdout, "expires at: %s\n", claims.ExpiresAt.Time.Format(time.RFC3339))
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: token issue -id <id> -email <email>")
	fmt.Fprintln(w, "       token verify -token <jwt>")
}
