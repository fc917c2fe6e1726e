// Command token mints an access token signed with JWT_SECRET_KEY, for local
// development and smoke tests.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/config"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id (required)")
	email := flag.String("email", "", "email claim")
	companyID := flag.String("company", "", "company id claim")
	admin := flag.Bool("admin", false, "grant the is_admin claim")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	claims := jwt.AccessClaims{UserID: *userID, Email: *email, IsAdmin: *admin}
	if *companyID != "" {
		claims.CompanyID = companyID
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(claims)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires at", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
