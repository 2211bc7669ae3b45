package editor

import (
	"context"
	"sort"

	"artwork-helper/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Request is one item update.
type Request struct {
	ItemID    string
	Context   string
	URL       string
	Processes map[string]string
	// Prefix is prepended to every published key.
	Prefix string
}

// Update fetches metadata and processes artwork for req concurrently, then
// publishes both to sink. Keys of requested art types that produced nothing
// are cleared so stale values do not linger.
func (e *Editor) Update(ctx context.Context, req Request, sink PresentationSink) error {
	var metadata, images map[string]string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	if e.metadata != nil {
		g.Go(func() error {
			m, err := e.metadata.Metadata(gctx, req.ItemID)
			if err != nil {
				logging.Warn("Metadata for item %s unavailable: %v", req.ItemID, err)
				return nil
			}
			metadata = m
			return nil
		})
	}

	g.Go(func() error {
		images = e.ImageProcessor(gctx, req.ItemID, req.Context, req.Processes, req.URL)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	publish(sink, req.Prefix, metadata)
	publish(sink, req.Prefix, images)

	artTypes := make([]string, 0, len(req.Processes))
	for artType := range req.Processes {
		artTypes = append(artTypes, artType)
	}
	sort.Strings(artTypes)
	for _, artType := range artTypes {
		for _, key := range AttributeKeys(artType) {
			if _, ok := images[key]; !ok {
				sink.Clear(req.Prefix + key)
			}
		}
	}
	return nil
}

func publish(sink PresentationSink, prefix string, values map[string]string) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sink.Set(prefix+k, values[k])
	}
}
