package editor

import (
	"context"
	"errors"
	"testing"
)

type failingMetadata struct{}

func (failingMetadata) Metadata(context.Context, string) (map[string]string, error) {
	return nil, errors.New("library offline")
}

func TestUpdatePublishesWithPrefix(t *testing.T) {
	env := newTestEnv(t, WithMetadata(StaticMetadata{"title": "Alien"}))
	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, red, 20, 20))

	sink := NewMapSink()
	err := env.editor.Update(context.Background(), Request{
		ItemID:    "42",
		URL:       "http://host/logo.png",
		Processes: map[string]string{"clearlogo": "crop"},
		Prefix:    "Helper.",
	}, sink)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap := sink.Snapshot()
	if snap["Helper.title"] != "Alien" {
		t.Errorf("metadata not published: %v", snap)
	}
	if snap["Helper.clearlogo_color"] != "ffff0000" {
		t.Errorf("artwork not published: %v", snap)
	}
	if len(snap) != 5 {
		t.Errorf("published %d keys, want 5: %v", len(snap), snap)
	}
}

func TestUpdateClearsMissingArtwork(t *testing.T) {
	env := newTestEnv(t, WithMetadata(failingMetadata{}))

	sink := NewMapSink()
	for _, key := range AttributeKeys("fanart") {
		sink.Set(key, "stale")
	}
	sink.Set("unrelated", "kept")

	err := env.editor.Update(context.Background(), Request{
		ItemID:    "42",
		Context:   "empty",
		Processes: map[string]string{"fanart": "blur"},
	}, sink)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap := sink.Snapshot()
	if len(snap) != 1 || snap["unrelated"] != "kept" {
		t.Errorf("snapshot = %v, want only the unrelated key", snap)
	}
}

func TestUpdateCanceled(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewMapSink()
	err := env.editor.Update(ctx, Request{Processes: map[string]string{"clearlogo": "crop"}, URL: "x"}, sink)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(sink.Snapshot()) != 0 {
		t.Error("nothing should be published after cancellation")
	}
}
