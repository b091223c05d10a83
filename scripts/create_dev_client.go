package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/franciscosanchezn/taist-api/internal/database"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/services"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// create_dev_client makes a local user for role plus an API client acting as
// that user, and prints the credentials for /oauth/token.
func main() {
	role := flag.String("role", models.RoleAdmin, "User role (admin, chef or customer)")
	dbPath := flag.String("db", "taist.sqlite", "SQLite database file")
	password := flag.String("password", "dev-password", "Password for a newly created user")
	flag.Parse()

	switch *role {
	case models.RoleAdmin, models.RoleChef, models.RoleCustomer:
	default:
		log.Fatalf("unknown role %q", *role)
	}

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: *dbPath})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	user, err := userForRole(db, *role, *password)
	if err != nil {
		log.WithError(err).Fatal("Failed to get user for role")
	}

	client, secret, err := models.NewOAuthClient(fmt.Sprintf("Development %s client", *role), "http://localhost", "read write", user.ID)
	if err != nil {
		log.WithError(err).Fatal("Failed to generate client")
	}
	if err := services.NewClientService(db).CreateClient(client); err != nil {
		log.WithError(err).Fatal("Failed to create client")
	}

	fmt.Printf("Development API client created for role '%s'\n", *role)
	fmt.Printf("Client ID: %s\n", client.ID)
	fmt.Printf("Client Secret: %s\n", secret)
	fmt.Printf("User ID: %d\n", user.ID)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:8080/oauth/token \\\n")
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", client.ID)
	fmt.Printf("  -d 'client_secret=%s'\n", secret)
}

// userForRole finds or creates <role>@taist.local.
func userForRole(db *gorm.DB, role, password string) (*models.User, error) {
	users := services.NewUserService(db)
	email := fmt.Sprintf("%s@taist.local", role)

	user, err := users.GetUserByEmail(email)
	if err == nil {
		fmt.Printf("Found existing user: %s (ID: %d)\n", user.Email, user.ID)
		return user, nil
	}
	if !errors.Is(err, services.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Email:     email,
		Role:      role,
		UserType:  models.UserTypeCustomer,
		FirstName: "Dev",
		LastName:  role,
	}
	if role == models.RoleChef {
		user.UserType = models.UserTypeChef
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := users.CreateUser(user); err != nil {
		return nil, err
	}
	fmt.Printf("Created new user: %s (ID: %d)\n", user.Email, user.ID)
	return user, nil
}
