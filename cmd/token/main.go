// Command token mints a bearer token signed with the configured JWT
// secret. It is for local development and smoke tests only.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/auth"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/config"
)

func main() {
	var (
		userID   string
		username string
		role     string
		staff    bool
		ttl      time.Duration
	)
	flag.StringVar(&userID, "user", "", "User id (UUID); a random one is generated when empty")
	flag.StringVar(&username, "username", "dev", "Username claim")
	flag.StringVar(&role, "role", string(identity.RoleOwner), "Role claim: ADMIN or OWNER")
	flag.BoolVar(&staff, "staff", false, "Mark the token as a staff account")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime; defaults to jwt.token_ttl")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("load configuration: %v", err)
	}
	if cfg.App.IsProduction() {
		fail("refusing to mint tokens in production")
	}

	id := uuid.New()
	if userID != "" {
		if id, err = uuid.Parse(userID); err != nil {
			fail("invalid -user: %v", err)
		}
	}
	if ttl > 0 {
		cfg.JWT.TokenTTL = ttl
	}

	token, expiresAt, err := auth.NewJWTService(cfg.JWT).GenerateToken(auth.TokenInput{
		UserID:   id,
		Username: username,
		Role:     identity.Role(role),
		IsStaff:  staff,
	})
	if err != nil {
		fail("sign token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "user_id=%s role=%s expires=%s\n", id, role, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "token: "+format+"\n", args...)
	os.Exit(1)
}
