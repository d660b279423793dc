package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lmoura00/JogoLabirinto/game"
	"github.com/lmoura00/JogoLabirinto/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// progressDocument is the BSON form of a player's progress. Scores are keyed
// by the decimal level since BSON keys must be strings.
type progressDocument struct {
	PlayerID     string         `bson:"_id"`
	CurrentLevel int            `bson:"currentLevel"`
	Scores       map[string]int `bson:"scores"`
}

// ProgressRepo stores player progress in MongoDB, one document per player.
type ProgressRepo struct {
	collection *mongo.Collection
}

var _ i.ProgressStore = &ProgressRepo{}

// NewProgressRepo creates a ProgressRepo over the given database and collection.
func NewProgressRepo(client *mongo.Client, dbName, collectionName string) *ProgressRepo {
	return &ProgressRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// Load returns the stored progress, or the starting progress when the player
// has none.
func (r *ProgressRepo) Load(ctx context.Context, playerID uuid.UUID) (*game.Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var doc progressDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": playerID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.NewProgress(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}

	progress := game.NewProgress()
	progress.CurrentLevel = max(doc.CurrentLevel, game.FirstLevel)
	for key, score := range doc.Scores {
		level, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("stored score level %q: %w", key, err)
		}
		progress.Scores[level] = score
	}
	return progress, nil
}

// RecordCompletion upserts the player's document in one update: $max keeps
// the best score of the level and $set moves the current level on.
func (r *ProgressRepo) RecordCompletion(ctx context.Context, playerID uuid.UUID, c game.Completion) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	update := bson.M{
		"$max": bson.M{"scores." + strconv.Itoa(c.Level): c.Score},
		"$set": bson.M{"currentLevel": c.Level + 1},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": playerID.String()}, update, opts); err != nil {
		return fmt.Errorf("recording completion: %w", err)
	}
	return nil
}

// Reset removes the player's document.
func (r *ProgressRepo) Reset(ctx context.Context, playerID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": playerID.String()}); err != nil {
		return fmt.Errorf("resetting progress: %w", err)
	}
	return nil
}
