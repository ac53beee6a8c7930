package extract

// Extractor defines a minimal interface for record extraction strategies.
// Implementations can swap parsing tactics without changing callers.
type Extractor interface {
	// Extract converts raw HTML bytes into records in document order.
	// Implementations should be deterministic and avoid side effects.
	Extract(input []byte, opts Options) ([]Record, error)
}

// HTMLExtractor walks the parsed document tree using FromHTML.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(input []byte, opts Options) ([]Record, error) {
	return FromHTML(input, opts)
}
