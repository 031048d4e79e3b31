package testutil

import (
	"context"
	"testing"
	"time"

	rosterservice "studiodesk/internal/roster/service"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultDatabaseName = "studiodesk"
	ConnectionTimeout   = 10 * time.Second
)

var domainCollections = []string{
	mongodb.CollectionReservations,
	mongodb.CollectionReservationLocks,
	mongodb.CollectionMembers,
	mongodb.CollectionLedgerEntries,
	mongodb.CollectionProfessionals,
	mongodb.CollectionUsers,
	mongodb.CollectionNotifications,
	mongodb.CollectionNotificationReceipts,
}

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanDomain empties every collection the service owns. Collections are
// kept so the migrated validators and indexes stay in place.
func (m *MongoHelper) CleanDomain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range domainCollections {
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

// CountDocuments returns the number of documents in a collection matching filter.
func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

func (m *MongoHelper) InsertMember(t *testing.T, member *model.Member) {
	t.Helper()
	m.insert(t, mongodb.CollectionMembers, member)
}

func (m *MongoHelper) InsertProfessional(t *testing.T, p *model.Professional) {
	t.Helper()
	m.insert(t, mongodb.CollectionProfessionals, p)
}

// InsertUser stores u, hashing password first when one is given.
func (m *MongoHelper) InsertUser(t *testing.T, u *model.User, password string) {
	t.Helper()
	if password != "" {
		hash, err := rosterservice.HashPassword(password)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		u.PasswordHash = hash
	}
	m.insert(t, mongodb.CollectionUsers, u)
}

func (m *MongoHelper) insert(t *testing.T, collectionName string, doc any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.Database.Collection(collectionName).InsertOne(ctx, doc); err != nil {
		t.Fatalf("failed to insert into %s: %v", collectionName, err)
	}
}
