package database

// Entry is one row of the artwork lookup table.
type Entry struct {
	ID            int64  `json:"id"`
	Category      string `json:"category"`
	OriginalURL   string `json:"originalUrl"`
	ProcessedPath string `json:"processedPath"`
	ContentHash   string `json:"contentHash"`
	Color         string `json:"color"`
	Contrast      string `json:"contrast"`
	Luminosity    int    `json:"luminosity"`
}
