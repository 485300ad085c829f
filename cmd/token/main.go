// Command token mints an access token for local development. Identity is
// owned by an external provider in production.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/config"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/jwt"
)

func main() {
	workerID := flag.String("worker", "", "worker id to put in the token")
	isAdmin := flag.Bool("admin", false, "grant admin privileges")
	flag.Parse()

	if *workerID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -worker <id> [-admin]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(*workerID, *isAdmin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
