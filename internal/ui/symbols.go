package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Operation completed
	SymbolFail     = "✗" // Operation failed
	SymbolPending  = "○" // Not yet started
	SymbolComplete = "●" // Done (alternative to success)
	SymbolEllipsis = "…" // Truncated text
)
