package testutil

// FixedTraceIDGenerator returns the same trace id every time.
//
// CLI responses embed a trace id; a fixed one keeps JSON output
// byte-identical across runs so it can be compared against golden files.
//
// Thread-safety: FixedTraceIDGenerator is stateless and safe for concurrent use.
type FixedTraceIDGenerator struct {
	id string
}

// NewFixedTraceIDGenerator creates a fixed trace id generator.
// If id is empty, Generate returns "00000000-0000-0000-0000-000000000000".
func NewFixedTraceIDGenerator(id string) *FixedTraceIDGenerator {
	if id == "" {
		id = "00000000-0000-0000-0000-000000000000"
	}
	return &FixedTraceIDGenerator{id: id}
}

// Generate returns the fixed trace id.
func (g *FixedTraceIDGenerator) Generate() string {
	return g.id
}
