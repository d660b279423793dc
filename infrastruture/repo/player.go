package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/identity"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// playerDocument is the BSON form of a player.
type playerDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d *playerDocument) toPlayer() (*identity.Player, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("stored player id %q: %w", d.ID, err)
	}
	return &identity.Player{ID: id, Username: d.Username, PasswordHash: d.PasswordHash}, nil
}

// PlayerRepo handles the persistence of players in MongoDB.
type PlayerRepo struct {
	collection *mongo.Collection
}

var _ i.PlayerRepo = &PlayerRepo{}

// NewPlayerRepo creates a new PlayerRepo with the given MongoDB client, database name, and collection name.
func NewPlayerRepo(client *mongo.Client, dbName, collectionName string) *PlayerRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &PlayerRepo{
		collection: collection,
	}
}

// EnsureIndexes creates the unique username index that Save relies on to
// detect conflicts.
func (r *PlayerRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating username index: %w", err)
	}
	return nil
}

// Save inserts or updates a player in the repository.
// If the player already exists, it updates the existing record.
// If the player does not exist, it adds a new record.
func (r *PlayerRepo) Save(ctx context.Context, player *identity.Player) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": player.ID.String()}
	update := bson.M{
		"$set": bson.M{
			"username":     player.Username,
			"passwordHash": player.PasswordHash,
			"updatedAt":    time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameConflict
		}
		return fmt.Errorf("saving player: %w", err)
	}

	return nil
}

// ByID retrieves a player by their ID.
func (r *PlayerRepo) ByID(ctx context.Context, id uuid.UUID) (*identity.Player, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

// ByUsername retrieves a player by their username.
func (r *PlayerRepo) ByUsername(ctx context.Context, username string) (*identity.Player, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *PlayerRepo) findOne(ctx context.Context, filter bson.M) (*identity.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var doc playerDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("finding player: %w", err)
	}
	return doc.toPlayer()
}
