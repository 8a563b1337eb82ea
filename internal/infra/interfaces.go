package infra

import "context"

type ExtractionClientInterface interface {
	Extract(ctx context.Context, filename string, content []byte) ([]map[string]any, error)
}

type MatchingClientInterface interface {
	MatchBatch(ctx context.Context, queries []string) (map[string][]MatchCandidate, error)
}

var (
	_ ExtractionClientInterface = (*ExtractionClient)(nil)
	_ MatchingClientInterface   = (*MatchingClient)(nil)
)
