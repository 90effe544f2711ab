package format

// Formatter renders a log entry into a sink-ready message. Implementations
// are stateless singletons shared by all consumer goroutines.
type Formatter interface {
	// Name returns the formatter's registration name.
	Name() string

	// CanFormat reports whether the formatter can render this entry.
	CanFormat(ctx *Context) bool

	// Format renders the entry. Implementations return Failure instead of
	// an error; the selector maps failures onto the fallback policy.
	Format(ctx *Context) Result
}

// Registered formatter names.
const (
	NameStandard     = "standard"
	NameCustom       = "custom"
	NameJSON         = "json"
	NameSuccessError = "successerror"
	NameHybrid       = "hybrid"
)
