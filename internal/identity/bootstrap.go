package identity

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User is the identity collaborator's document. Authentication itself lives
// outside this core; only the startup bootstrap touches this collection.
type User struct {
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	IsAdmin   bool      `bson:"is_admin"`
	CreatedAt time.Time `bson:"created_at"`
}

// EnsureDefaultAdmin creates the default administrator account if it does not
// exist yet. The upsert makes it idempotent across restarts and concurrent
// replicas.
func EnsureDefaultAdmin(ctx context.Context, db *mongo.Database, email, password string) error {
	users := db.Collection("users")

	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": User{
			Name:      "Admin",
			Email:     email,
			Password:  password,
			IsAdmin:   true,
			CreatedAt: time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	result, err := users.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to ensure default admin: %w", err)
	}

	if result.UpsertedCount > 0 {
		log.Printf("default admin account created for %s", email)
	} else {
		log.Printf("admin account already exists for %s", email)
	}

	return nil
}
