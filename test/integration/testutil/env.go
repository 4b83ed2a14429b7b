package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"eventify/pkg/auth"
	"eventify/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultHealthCheckTimeout = 5 * time.Second
	DefaultJWTSecret          = "secretKey_change_me"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	JWTSecret    string
}

func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", "8080")

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
		JWTSecret:    getEnv("TEST_JWT_SECRET", DefaultJWTSecret),
	}
}

// Setup waits for the server, then connects to its database and empties the
// collections the tests write to.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Client) {
	t.Helper()

	client := NewClient(e.ServerURL)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollection(t, EventsCollection)
	mongo.CleanCollection(t, ReservationsCollection)

	return mongo, client
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollection(t, EventsCollection)
		mongo.CleanCollection(t, ReservationsCollection)
		mongo.Close(t)
	}
}

// Token signs a bearer token for a fresh user id with the given role.
func (e *TestEnv) Token(t *testing.T, role model.Role) (string, string) {
	t.Helper()

	userID := primitive.NewObjectID().Hex()
	token, err := auth.Issue(e.JWTSecret, auth.Principal{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   role,
	}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token, userID
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
