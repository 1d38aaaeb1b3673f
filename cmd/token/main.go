// Command token mints an API access token for an operator or dashboard client.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/attendify/attendify-backend-go/internal/config"
	"github.com/attendify/attendify-backend-go/internal/pkg/jwt"
)

func main() {
	subject := flag.String("sub", "", "token subject, e.g. the operator's email")
	expiry := flag.String("exp", "", "token lifetime (defaults to JWT_ACCESS_EXPIRATION_TIME)")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "token: -sub is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	lifetime := cfg.JWT.AccessExpiration
	if *expiry != "" {
		lifetime = *expiry
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, lifetime).GenerateAccessToken(*subject)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
