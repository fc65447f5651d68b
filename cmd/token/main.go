// Command token mints an access token for a user id and role so operators
// and integration tests can call the API without a login flow.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/utils"
)

func main() {
	config.LoadDotEnv()

	userID := flag.Uint64("user", 0, "user id placed in the sub claim")
	role := flag.String("role", model.RoleGuest, "GUEST or STAFF")
	ttl := flag.Duration("ttl", 0, "token lifetime (default ACCESS_TOKEN_TTL_MIN minutes)")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("missing required env var: JWT_SECRET")
	}
	if *userID == 0 {
		log.Fatal("-user is required")
	}
	r := strings.ToUpper(*role)
	if r != model.RoleGuest && r != model.RoleStaff {
		log.Fatalf("unknown role %q", *role)
	}
	if *ttl <= 0 {
		*ttl = time.Duration(config.AccessTTLMinutes()) * time.Minute
	}

	tok, err := utils.NewAccessToken(secret, *userID, r, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
