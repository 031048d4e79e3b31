package testutil

import (
	"os"
	"testing"
)

// Suite is one test's view of a running reservations service and the Mongo
// database behind it. Both are reset before the test and again at cleanup.
type Suite struct {
	Mongo  *MongoHelper
	Client *Client
}

// Setup connects to TEST_MONGO_URI / TEST_DB_NAME, waits for TEST_SERVER_URL
// to report ready and empties the domain collections.
func Setup(t *testing.T) *Suite {
	t.Helper()

	mongo := NewMongoHelper(t, getEnv("TEST_MONGO_URI", DefaultMongoURI), getEnv("TEST_DB_NAME", DefaultDatabaseName))
	mongo.CleanDomain(t)
	t.Cleanup(func() {
		mongo.CleanDomain(t)
		mongo.Close(t)
	})

	client := NewClient(getEnv("TEST_SERVER_URL", "http://localhost:"+getEnv("TEST_SERVER_PORT", "8080")))
	client.WaitForReady(t, DefaultHealthCheckTimeout)

	return &Suite{Mongo: mongo, Client: client}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

const DefaultHealthCheckTimeout = 3 * ConnectionTimeout
