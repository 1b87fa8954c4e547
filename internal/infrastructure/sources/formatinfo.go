package sources

// FormatInfo describes a registered document format.
// Returned by Decoder.Info() and exposed via GET /formats.
type FormatInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ContentTypes []string `json:"content_types"`
	Extensions   []string `json:"extensions"`
}
