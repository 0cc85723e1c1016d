package search

import (
	"context"

	"github.com/marovi/company-search/internal/domain"
)

// Embedder vectorizes the description text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Gateway runs the similarity query against the external vector index.
type Gateway interface {
	Search(
		ctx context.Context, vector []float32, numCandidates, limit int, industries []string,
	) ([]domain.CompanyRecord, error)
}
