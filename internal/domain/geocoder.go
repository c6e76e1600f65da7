package domain

import "context"

// Searcher looks up candidate places by name.
type Searcher interface {
	// Search returns the upstream candidates for name in relevance order.
	// An empty slice (not an error) means nothing matched.
	Search(ctx context.Context, name string) ([]Candidate, error)
}
