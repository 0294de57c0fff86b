// Package mongodb stores users and tasks as MongoDB documents.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/msomdec/todo-api/internal/domain"
)

const (
	defaultDatabase = "todo"
	usersCollection = "users"
	tasksCollection = "tasks"
	closeTimeout    = 5 * time.Second
)

// DB wraps a MongoDB client and implements domain.Store.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the deployment at uri. The database name is taken from
// the URI path and defaults to "todo".
func New(ctx context.Context, uri string) (*DB, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	name := cs.Database
	if name == "" {
		name = defaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	return NewFromClient(client, name), nil
}

// NewFromClient wraps an already connected client.
func NewFromClient(client *mongo.Client, database string) *DB {
	return &DB{client: client, db: client.Database(database)}
}

// Migrate creates the unique identity indexes and the owner index.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = db.db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return db.client.Disconnect(ctx)
}

func (db *DB) Users() domain.UserRepository {
	return NewUserRepository(db.db.Collection(usersCollection))
}

func (db *DB) Tasks() domain.TaskRepository {
	return NewTaskRepository(db.db.Collection(tasksCollection))
}
