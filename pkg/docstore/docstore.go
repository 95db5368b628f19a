// Package docstore persists published documents in MongoDB. Articles,
// authors and primary sources live in separate collections keyed by
// their natural IDs, so every save is an idempotent replace-upsert.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"encyc-sync/pkg/domain"
	"encyc-sync/pkg/reconcile"
)

// ErrNotFound is returned when a requested document is not in the store.
var ErrNotFound = errors.New("document not found")

const (
	articlesCollection = "articles"
	authorsCollection  = "authors"
	sourcesCollection  = "sources"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Store wraps the MongoDB client and the three document collections.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	articles *mongo.Collection
	authors  *mongo.Collection
	sources  *mongo.Collection
	log      *zap.Logger
}

// Connect creates a Store and verifies the server is reachable.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOptions.SetTimeout(cfg.Timeout)
	}
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to docstore: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping docstore: %w", err)
	}
	database := client.Database(cfg.Database)
	return &Store{
		client:   client,
		database: database,
		articles: database.Collection(articlesCollection),
		authors:  database.Collection(authorsCollection),
		sources:  database.Collection(sourcesCollection),
		log:      logger,
	}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Setup creates the secondary indexes the listing queries use.
func (s *Store) Setup(ctx context.Context) error {
	for _, coll := range []*mongo.Collection{s.articles, s.authors, s.sources} {
		_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "modified", Value: 1}}},
			{Keys: bson.D{{Key: "title_sort", Value: 1}}},
		})
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	s.log.Info("docstore indexes created", zap.String("database", s.database.Name()))
	return nil
}

// Drop removes the whole database. Used before a full rebuild.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.database.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", s.database.Name(), err)
	}
	s.log.Info("docstore dropped", zap.String("database", s.database.Name()))
	return nil
}

// Counts returns the number of documents in each collection.
func (s *Store) Counts(ctx context.Context) (articles, authors, sources int64, err error) {
	if articles, err = s.articles.CountDocuments(ctx, bson.M{}); err != nil {
		return
	}
	if authors, err = s.authors.CountDocuments(ctx, bson.M{}); err != nil {
		return
	}
	sources, err = s.sources.CountDocuments(ctx, bson.M{})
	return
}

func save(ctx context.Context, coll *mongo.Collection, key string, doc interface{}) error {
	filter := bson.M{"_id": key}
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", coll.Name(), key, err)
	}
	return nil
}

func remove(ctx context.Context, coll *mongo.Collection, key string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", coll.Name(), key, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// listing fetches key and modification time for every document in a
// collection, the minimum reconciliation needs.
func listing(ctx context.Context, coll *mongo.Collection) ([]reconcile.Item, error) {
	projection := options.Find().SetProjection(bson.M{"_id": 1, "modified": 1})
	cursor, err := coll.Find(ctx, bson.M{}, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var items []reconcile.Item
	for cursor.Next(ctx) {
		var row struct {
			Key      string    `bson:"_id"`
			Modified time.Time `bson:"modified"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode %s listing: %w", coll.Name(), err)
		}
		items = append(items, reconcile.Item{Key: row.Key, LastMod: row.Modified})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", coll.Name(), err)
	}
	return items, nil
}

// SaveArticle writes an article, replacing any existing version.
func (s *Store) SaveArticle(ctx context.Context, article *domain.Article) error {
	return save(ctx, s.articles, article.URLTitle, article)
}

// GetArticle fetches an article by url_title.
func (s *Store) GetArticle(ctx context.Context, urlTitle string) (*domain.Article, error) {
	var article domain.Article
	err := s.articles.FindOne(ctx, bson.M{"_id": urlTitle}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", urlTitle, err)
	}
	return &article, nil
}

// DeleteArticle removes an article. ErrNotFound when it was not there.
func (s *Store) DeleteArticle(ctx context.Context, urlTitle string) error {
	return remove(ctx, s.articles, urlTitle)
}

// Articles lists the keys and modification times of all stored articles.
func (s *Store) Articles(ctx context.Context) ([]reconcile.Item, error) {
	return listing(ctx, s.articles)
}

// SaveAuthor writes an author, replacing any existing version.
func (s *Store) SaveAuthor(ctx context.Context, author *domain.Author) error {
	return save(ctx, s.authors, author.URLTitle, author)
}

// GetAuthor fetches an author by url_title.
func (s *Store) GetAuthor(ctx context.Context, urlTitle string) (*domain.Author, error) {
	var author domain.Author
	err := s.authors.FindOne(ctx, bson.M{"_id": urlTitle}).Decode(&author)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author %s: %w", urlTitle, err)
	}
	return &author, nil
}

// DeleteAuthor removes an author.
func (s *Store) DeleteAuthor(ctx context.Context, urlTitle string) error {
	return remove(ctx, s.authors, urlTitle)
}

// Authors lists the keys and modification times of all stored authors.
func (s *Store) Authors(ctx context.Context) ([]reconcile.Item, error) {
	return listing(ctx, s.authors)
}

// SaveSource writes a primary source, replacing any existing version.
func (s *Store) SaveSource(ctx context.Context, source *domain.PrimarySource) error {
	return save(ctx, s.sources, source.EncyclopediaID, source)
}

// GetSource fetches a primary source by encyclopedia ID.
func (s *Store) GetSource(ctx context.Context, encyclopediaID string) (*domain.PrimarySource, error) {
	var source domain.PrimarySource
	err := s.sources.FindOne(ctx, bson.M{"_id": encyclopediaID}).Decode(&source)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source %s: %w", encyclopediaID, err)
	}
	return &source, nil
}

// DeleteSource removes a primary source.
func (s *Store) DeleteSource(ctx context.Context, encyclopediaID string) error {
	return remove(ctx, s.sources, encyclopediaID)
}

// Sources lists the keys and modification times of all stored sources.
func (s *Store) Sources(ctx context.Context) ([]reconcile.Item, error) {
	return listing(ctx, s.sources)
}

// RestrictedTitles lists the url_titles of articles published to the
// restricted Resource Guide. Link marking uses this set.
func (s *Store) RestrictedTitles(ctx context.Context) ([]string, error) {
	projection := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := s.articles.Find(ctx, bson.M{"published_restricted": true}, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to list restricted articles: %w", err)
	}
	defer cursor.Close(ctx)

	var titles []string
	for cursor.Next(ctx) {
		var row struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode restricted listing: %w", err)
		}
		titles = append(titles, row.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on restricted listing: %w", err)
	}
	return titles, nil
}
