package schema

import (
	"strconv"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// parseSequence validates every entry of an ordered sequence. Entries keep
// their input positions whether they are validated sequentially or by a
// bounded worker pool; failures are reported under "[i]" in index order.
func parseSequence[T any](items []any, opts *options, parse func(v any, opts *options) (T, error)) ([]T, error) {
	out := make([]T, len(items))
	errs := make([]error, len(items))

	if opts.concurrency > 1 && len(items) > 1 {
		var g errgroup.Group
		g.SetLimit(opts.concurrency)
		for i, item := range items {
			g.Go(func() error {
				out[i], errs[i] = parse(item, opts)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, item := range items {
			out[i], errs[i] = parse(item, opts)
			if errs[i] != nil && opts.failFast {
				break
			}
		}
	}

	var combined error
	for i, err := range errs {
		if err == nil {
			continue
		}
		combined = multierr.Append(combined, nestAll("["+strconv.Itoa(i)+"]", err))
		if opts.failFast {
			break
		}
	}
	if combined != nil {
		return nil, combined
	}
	return out, nil
}
