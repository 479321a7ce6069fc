// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON gateway.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for ordinary JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxContextContentSize is the maximum size for knowledge base upserts,
	// which carry bulk content and get a larger allowance.
	MaxContextContentSize = 4 << 20 // 4 MB
)
