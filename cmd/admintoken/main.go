package main

import (
	jwtPkg "HomeFinder/pkg/jwt"
	"HomeFinder/pkg/log"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

// admintoken mints a bearer token for the /api/v1/assistant admin routes.
func main() {
	id := flag.String("id", "", "admin id")
	email := flag.String("email", "", "admin email")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	if *id == "" || *email == "" {
		logger.Fatal("both -id and -email are required")
	}

	token, expiresAt, err := jwtPkg.Sign(map[string]interface{}{
		"id":    *id,
		"email": *email,
	}, *ttl)
	if err != nil {
		logger.Fatalf("Failed to sign admin token: %v", err)
	}

	fmt.Println(token)
	logger.Infof("Token expires at %s", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
