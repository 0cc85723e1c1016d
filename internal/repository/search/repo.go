// Package search runs $vectorSearch aggregations against the company
// collection on MongoDB Atlas. Ranking comes from the Atlas index and is
// never recomputed here.
package search

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/marovi/company-search/internal/db/mongodb"
	"github.com/marovi/company-search/internal/domain"
	"github.com/marovi/company-search/internal/metrics"
)

// Build-time constants: the index and collection are pre-existing Atlas
// resources, not user configuration.
const (
	databaseName   = "marovi_db_prod"
	collectionName = "companies_new_data_load"

	vectorIndexName = "vector_index_for_company_search"
	embeddingPath   = "company_description_embedding"

	// Hard-coded policy: every query is restricted to US-headquartered
	// companies, regardless of user input.
	headquartersCountry = "USA"
)

// Repository is the vector search gateway over the company collection.
type Repository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// New creates the gateway bound to the fixed database and collection.
func New(client *mongodb.Client, logger *zap.Logger) *Repository {
	return &Repository{
		coll:   client.Collection(databaseName, collectionName),
		logger: logger,
	}
}

// Search runs a similarity-ranked query for up to limit records out of
// numCandidates ANN candidates. industries, when non-empty, narrows results
// with an inclusion filter. Returns no partial results on failure.
func (r *Repository) Search(
	ctx context.Context, vector []float32, numCandidates, limit int, industries []string,
) ([]domain.CompanyRecord, error) {
	pipeline := searchPipeline(vector, numCandidates, limit, industries)

	start := time.Now()

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		metrics.VectorSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("run vector search: %s: %w", err, domain.ErrSearchFailed)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var rows []companyRow
	if err := cursor.All(ctx, &rows); err != nil {
		metrics.VectorSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode vector search results: %s: %w", err, domain.ErrSearchFailed)
	}

	metrics.VectorSearchRequestsTotal.WithLabelValues("success").Inc()
	metrics.VectorSearchDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	records := make([]domain.CompanyRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toDomain())
	}

	r.logger.Debug("Vector search completed",
		zap.Int("records", len(records)),
		zap.Int("num_candidates", numCandidates),
		zap.Int("limit", limit),
		zap.Strings("industries", industries),
	)

	return records, nil
}

// searchPipeline builds the two-stage aggregation: $vectorSearch against the
// fixed index, then a $project down to the displayed fields plus the
// similarity score.
func searchPipeline(vector []float32, numCandidates, limit int, industries []string) mongo.Pipeline {
	filter := bson.D{
		{Key: "company_headquarters_country", Value: headquartersCountry},
	}
	if len(industries) > 0 {
		filter = append(filter, bson.E{
			Key:   "industry",
			Value: bson.D{{Key: "$in", Value: industries}},
		})
	}

	searchStage := bson.D{{Key: "$vectorSearch", Value: bson.D{
		{Key: "index", Value: vectorIndexName},
		{Key: "path", Value: embeddingPath},
		{Key: "queryVector", Value: vector},
		{Key: "numCandidates", Value: numCandidates},
		{Key: "limit", Value: limit},
		{Key: "filter", Value: filter},
	}}}

	projectStage := bson.D{{Key: "$project", Value: bson.D{
		{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		{Key: "company_name", Value: 1},
		{Key: "company_description", Value: 1},
		{Key: "company_headquarters_country", Value: 1},
		{Key: "industry", Value: 1},
		{Key: "_id", Value: 0},
	}}}

	return mongo.Pipeline{searchStage, projectStage}
}
