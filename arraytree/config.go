package arraytree

const (
	// DefaultCapacity is the slot count of the reference benchmark.
	DefaultCapacity = 200_000_000
	// DefaultSize is the build size of the reference benchmark.
	DefaultSize = 99_999_999
	// DefaultTarget is the search target of the reference benchmark.
	DefaultTarget int32 = 199_999_999

	defaultChunkSlots = 1 << 20
	minCapacity       = RootIndex + 1
)

// Config holds tree parameters.
type Config struct {
	Capacity      int     // total slots including unused slot 0, default 200,000,000
	UseOffheap    bool    // use C.calloc for slots (requires CGO), keeps the slot array out of the GC heap
	PersistPath   string  // non-empty and file exists: NewTree loads it via mmap; read-only tree
	SearchWorkers int     // when >0, enables the parallel scan pool used by IndexOfParallel
	ChunkSlots    int     // slots per parallel scan job, default 1<<20
	Logger        *Logger // nil disables logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Capacity:   DefaultCapacity,
		ChunkSlots: defaultChunkSlots,
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c in place
// and returns it.
// A positive Capacity below the minimum is left for NewTree to reject.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.ChunkSlots <= 0 {
		c.ChunkSlots = defaultChunkSlots
	}
	if c.SearchWorkers < 0 {
		c.SearchWorkers = 0
	}
	return c
}
