// Package mongostore implements store.Store on a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/dtnitsch/web-summarizer/pkg/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// document is the stored shape of a summary.
type document struct {
	ID        string    `bson:"_id"`
	URL       string    `bson:"url"`
	Title     string    `bson:"title"`
	Summary   string    `bson:"summary"`
	KeyPoints []string  `bson:"keyPoints"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d document) record() models.SummaryRecord {
	keyPoints := d.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return models.SummaryRecord{
		ID:        d.ID,
		URL:       d.URL,
		Title:     d.Title,
		Summary:   d.Summary,
		KeyPoints: keyPoints,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// sortFields maps sortable fields to document keys.
var sortFields = map[string]string{
	store.FieldCreatedAt: "createdAt",
}

// Store is a MongoDB-backed summary store.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	clock      *store.Clock
}

var _ store.Store = (*Store)(nil)

// Open connects to uri and ensures the createdAt index on the collection.
func Open(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := New(client.Database(database).Collection(collection))
	s.client = client

	_, err = s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	return s, nil
}

// New wraps an existing collection. BSON dates carry milliseconds, so the
// clock runs at that resolution.
func New(collection *mongo.Collection) *Store {
	return &Store{
		client:     collection.Database().Client(),
		collection: collection,
		clock:      store.NewClock(time.Millisecond, nil),
	}
}

// SetClock replaces the clock that stamps new records.
func (s *Store) SetClock(c *store.Clock) {
	s.clock = c
}

func (s *Store) Create(ctx context.Context, n models.NewSummary) (*models.SummaryRecord, error) {
	rec := n.Record(uuid.NewString(), s.clock.Now())

	_, err := s.collection.InsertOne(ctx, document{
		ID:        rec.ID,
		URL:       rec.URL,
		Title:     rec.Title,
		Summary:   rec.Summary,
		KeyPoints: rec.KeyPoints,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	})
	if err != nil {
		return nil, models.PersistenceError("insert summary", err)
	}
	return &rec, nil
}

func (s *Store) Query(ctx context.Context, f filter.Filter, sort store.SortSpec, limit int) ([]models.SummaryRecord, error) {
	if err := sort.Validate(); err != nil {
		return nil, models.QueryError("query summaries", err)
	}

	dir := 1
	if sort.Descending {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortFields[sort.Field], Value: dir}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, toBSON(f), opts)
	if err != nil {
		return nil, models.QueryError("query summaries", err)
	}
	defer cursor.Close(ctx)

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, models.QueryError("decode summaries", err)
	}

	records := make([]models.SummaryRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.record())
	}
	return records, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// literal returns a case-insensitive regex matching s as a substring.
func literal(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// toBSON translates a Filter into a MongoDB query document.
func toBSON(f filter.Filter) bson.M {
	q := bson.M{}
	if f.IsEmpty() {
		return q
	}

	if f.Search != "" {
		re := literal(f.Search)
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"summary": re},
			bson.M{"keyPoints": re},
		}
	}

	if f.Domain != "" {
		q["url"] = literal(f.Domain)
	}

	if f.From != nil || f.To != nil {
		created := bson.M{}
		if f.From != nil {
			created["$gte"] = *f.From
		}
		if f.To != nil {
			created["$lte"] = *f.To
		}
		q["createdAt"] = created
	}

	return q
}
