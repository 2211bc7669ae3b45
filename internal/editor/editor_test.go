package editor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"artwork-helper/internal/artwork"
	"artwork-helper/internal/cache"
	"artwork-helper/internal/database"
)

type countingTransformer struct {
	*artwork.Processor

	mu      sync.Mutex
	calls   int
	panicOn artwork.Transform
}

func (c *countingTransformer) Transform(t artwork.Transform, img image.Image) (*artwork.Result, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if t == c.panicOn {
		panic("transform exploded")
	}
	return c.Processor.Transform(t, img)
}

func (c *countingTransformer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type testEnv struct {
	cfg         cache.Config
	store       *database.Store
	transformer *countingTransformer
	resolver    *ContextStore
	editor      *Editor
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	root := t.TempDir()
	cfg := cache.Config{
		RawDir:    filepath.Join(root, "Thumbnails"),
		TempDir:   filepath.Join(root, "data", "temp"),
		OutputDir: filepath.Join(root, "data"),
	}
	store, err := database.New(context.Background(), filepath.Join(root, "artwork.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{
		cfg:         cfg,
		store:       store,
		transformer: &countingTransformer{Processor: artwork.NewProcessor()},
		resolver:    NewContextStore(),
	}
	opts = append([]Option{WithResolver(env.resolver), WithPoll(5*time.Millisecond, 100*time.Millisecond)}, opts...)
	env.editor = New(cache.NewManager(cfg, store, cache.FileSource{}), env.transformer, opts...)
	return env
}

func solidPNG(t *testing.T, c color.NRGBA, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// writeRaw puts data where the host would have cached decodedURL.
func (env *testEnv) writeRaw(t *testing.T, decodedURL, ext string, data []byte) {
	t.Helper()
	name := cache.ThumbName(decodedURL)
	path := filepath.Join(env.cfg.RawDir, name[:1], name+ext)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestImageProcessorEncodedURLIsCached(t *testing.T) {
	env := newTestEnv(t)
	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, red, 100, 40))

	ctx := context.Background()
	processes := map[string]string{"clearlogo": "crop"}
	url := "image://http%3a%2f%2fhost%2flogo.png/"

	first := env.editor.ImageProcessor(ctx, "item-1", "", processes, url)

	wantPath := filepath.Join(env.cfg.OutputDir, "crop", cache.ThumbName("http://host/logo.png")+".png")
	if first["clearlogo"] != wantPath {
		t.Errorf("clearlogo = %q, want %q", first["clearlogo"], wantPath)
	}
	if first["clearlogo_color"] != "ffff0000" {
		t.Errorf("clearlogo_color = %q, want ffff0000", first["clearlogo_color"])
	}
	if len(first["clearlogo_contrast"]) != 8 {
		t.Errorf("clearlogo_contrast = %q", first["clearlogo_contrast"])
	}
	if first["clearlogo_luminosity"] != "213" {
		t.Errorf("clearlogo_luminosity = %q, want 213", first["clearlogo_luminosity"])
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("processed file missing: %v", err)
	}

	second := env.editor.ImageProcessor(ctx, "item-1", "", processes, url)
	if len(second) != len(first) {
		t.Fatalf("second result = %v, want %v", second, first)
	}
	for k, v := range first {
		if second[k] != v {
			t.Errorf("second[%s] = %q, want %q", k, second[k], v)
		}
	}
	if got := env.transformer.count(); got != 1 {
		t.Errorf("transform ran %d times, want 1", got)
	}
}

func TestImageProcessorRecomputesWhenRawChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	processes := map[string]string{"clearlogo": "crop"}

	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, red, 60, 20))
	first := env.editor.ImageProcessor(ctx, "item", "", processes, "http://host/logo.png")
	if first["clearlogo_color"] != "ffff0000" {
		t.Fatalf("first color = %q", first["clearlogo_color"])
	}

	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, blue, 60, 20))
	second := env.editor.ImageProcessor(ctx, "item", "", processes, "http://host/logo.png")
	if second["clearlogo_color"] != "ff0000ff" {
		t.Errorf("second color = %q, want ff0000ff", second["clearlogo_color"])
	}
	if got := env.transformer.count(); got != 2 {
		t.Errorf("transform ran %d times, want 2", got)
	}

	n, err := env.store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("lookup rows = %d, want 1", n)
	}
	entry, err := env.store.GetEntry(ctx, "http://host/logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Color != "ff0000ff" || entry.Category != "clearlogo" {
		t.Errorf("stored entry = %+v", entry)
	}
}

func TestImageProcessorRecomputesWhenOutputDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	processes := map[string]string{"clearlogo": "crop"}
	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, red, 60, 20))

	first := env.editor.ImageProcessor(ctx, "item", "", processes, "http://host/logo.png")
	if err := os.Remove(first["clearlogo"]); err != nil {
		t.Fatal(err)
	}

	second := env.editor.ImageProcessor(ctx, "item", "", processes, "http://host/logo.png")
	if second["clearlogo"] != first["clearlogo"] {
		t.Errorf("path changed: %q vs %q", second["clearlogo"], first["clearlogo"])
	}
	if got := env.transformer.count(); got != 2 {
		t.Errorf("transform ran %d times, want 2", got)
	}
}

func TestImageProcessorCorruptSourceIsOmitted(t *testing.T) {
	env := newTestEnv(t)
	env.writeRaw(t, "http://host/logo.png", ".png", []byte("this is not a png"))
	env.writeRaw(t, "http://host/fanart.jpg", ".jpg", solidPNG(t, blue, 64, 36))

	result := env.editor.ImageProcessor(context.Background(), "item", "", map[string]string{
		"clearlogo": "crop",
	}, "http://host/logo.png")
	if result == nil || len(result) != 0 {
		t.Errorf("result = %v, want empty map", result)
	}

	env.resolver.Put("home", map[string]string{
		"clearlogo": "http://host/logo.png",
		"fanart":    "http://host/fanart.jpg",
	})
	result = env.editor.ImageProcessor(context.Background(), "item", "home", map[string]string{
		"clearlogo": "crop",
		"fanart":    "blur",
	}, "")
	if _, ok := result["clearlogo"]; ok {
		t.Error("corrupt clearlogo should be omitted")
	}
	if !strings.HasPrefix(result["fanart_color"], "ff0000") {
		t.Errorf("fanart_color = %q, want blue", result["fanart_color"])
	}
	if filepath.Ext(result["fanart"]) != ".jpg" {
		t.Errorf("fanart = %q, want a .jpg", result["fanart"])
	}
}

func TestImageProcessorTransparentLogoIsOmitted(t *testing.T) {
	env := newTestEnv(t)
	env.writeRaw(t, "http://host/empty.png", ".png", solidPNG(t, color.NRGBA{}, 40, 40))

	result := env.editor.ImageProcessor(context.Background(), "item", "", map[string]string{"clearlogo": "crop"}, "http://host/empty.png")
	if len(result) != 0 {
		t.Errorf("result = %v, want empty", result)
	}
	if n, _ := env.store.Count(context.Background()); n != 0 {
		t.Errorf("lookup rows = %d, want 0", n)
	}
}

func TestImageProcessorStagesLocalSource(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(src, solidPNG(t, red, 30, 10), 0o644); err != nil {
		t.Fatal(err)
	}

	result := env.editor.ImageProcessor(context.Background(), "item", "", map[string]string{"clearlogo": "crop"}, src)
	if result["clearlogo_color"] != "ffff0000" {
		t.Fatalf("result = %v", result)
	}

	entries, err := os.ReadDir(env.cfg.TempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir still holds %d files", len(entries))
	}

	env.editor.ImageProcessor(context.Background(), "item", "", map[string]string{"clearlogo": "crop"}, src)
	if got := env.transformer.count(); got != 1 {
		t.Errorf("transform ran %d times, want 1", got)
	}
}

func TestImageProcessorResolvesFromContext(t *testing.T) {
	env := newTestEnv(t)
	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, red, 20, 20))

	go func() {
		time.Sleep(20 * time.Millisecond)
		env.resolver.Put("widget", map[string]string{"clearlogo": "image://http%3a%2f%2fhost%2flogo.png/"})
	}()

	result := env.editor.ImageProcessor(context.Background(), "item", "widget", map[string]string{"clearlogo": "crop"}, "")
	if result["clearlogo_color"] != "ffff0000" {
		t.Errorf("result = %v", result)
	}
}

func TestImageProcessorResolveTimeoutSkips(t *testing.T) {
	env := newTestEnv(t)

	start := time.Now()
	result := env.editor.ImageProcessor(context.Background(), "item", "nowhere", map[string]string{"clearlogo": "crop"}, "")
	if len(result) != 0 {
		t.Errorf("result = %v, want empty", result)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("resolution took %v", elapsed)
	}
	if env.transformer.count() != 0 {
		t.Error("transform should not run without a URL")
	}
}

func TestImageProcessorUnexpectedErrorsEmptyResult(t *testing.T) {
	env := newTestEnv(t)
	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, red, 20, 20))

	result := env.editor.ImageProcessor(context.Background(), "item", "", map[string]string{
		"clearlogo": "crop",
		"fanart":    "sharpen",
	}, "http://host/logo.png")
	if len(result) != 0 {
		t.Errorf("unknown transform: result = %v, want empty", result)
	}

	env.writeRaw(t, "http://host/other.png", ".png", solidPNG(t, blue, 20, 20))
	env.transformer.panicOn = artwork.Crop
	result = env.editor.ImageProcessor(context.Background(), "item", "", map[string]string{"clearlogo": "crop"}, "http://host/other.png")
	if result == nil || len(result) != 0 {
		t.Errorf("panic: result = %v, want empty map", result)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env.transformer.panicOn = 0
	result = env.editor.ImageProcessor(ctx, "item", "", map[string]string{"clearlogo": "crop"}, "http://host/logo.png")
	if len(result) != 0 {
		t.Errorf("canceled: result = %v, want empty", result)
	}
}

func TestImageProcessorBucketsClearlogoVariants(t *testing.T) {
	env := newTestEnv(t)
	env.writeRaw(t, "http://host/logo.png", ".png", solidPNG(t, red, 20, 20))

	result := env.editor.ImageProcessor(context.Background(), "item", "", map[string]string{"clearlogo-billboard": "crop"}, "http://host/logo.png")
	if _, ok := result["clearlogo_color"]; !ok {
		t.Errorf("result = %v, want clearlogo keys", result)
	}
}
