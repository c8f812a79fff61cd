package pipeline

import (
	"context"
	"destinystats/internal/bungie"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// fanOut calls fetch for 0..n-1 concurrently and returns the results in index
// order once all of them succeeded. The first error is returned and every
// result is dropped.
func fanOut[T any](ctx context.Context, stage string, n int, fetch func(ctx context.Context, i int) (T, error)) ([]T, error) {
	fanoutRequests.Add(ctx, int64(n), metric.WithAttributes(attribute.String("stage", stage)))

	results := make([]T, n)
	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		group.Go(func() error {
			result, err := fetch(ctx, i)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}

// fetchValid fetches path and rejects envelopes that are not successful.
func fetchValid(ctx context.Context, fetcher bungie.Fetcher, cred Credential, path string) (bungie.Envelope, error) {
	envelope, err := fetcher.Fetch(ctx, string(cred), path)
	if err != nil {
		return bungie.Envelope{}, err
	}
	err = envelope.Validate()
	if err != nil {
		return bungie.Envelope{}, err
	}
	return envelope, nil
}
