package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/nuvella/storefront-api/internal/config"
	"github.com/nuvella/storefront-api/internal/pkg/auth"
)

// Mints an access token for local testing of the signed-in routes:
//
//	go run scripts/issue_token.go -uid user-1 -email budi@example.com -admin
func main() {
	uid := flag.String("uid", "", "user id (required)")
	email := flag.String("email", "", "email address")
	name := flag.String("name", "", "display name")
	admin := flag.Bool("admin", false, "grant admin access")
	flag.Parse()

	if *uid == "" {
		log.Fatal("Usage: go run scripts/issue_token.go -uid <id> [-email <email>] [-name <name>] [-admin]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(auth.Identity{
		UserID:  *uid,
		Email:   *email,
		Name:    *name,
		IsAdmin: *admin,
	})
	if err != nil {
		log.Fatal("Error generating token:", err)
	}

	fmt.Printf("User: %s (admin=%t)\n", *uid, *admin)
	fmt.Printf("Expires in: %s\n", cfg.JWT.AccessTokenExpiry)
	fmt.Printf("Token: %s\n", token)
}
