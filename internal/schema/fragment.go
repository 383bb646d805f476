package schema

// ToolCallDelta is a partial tool invocation as streamed by the model.
// Deltas sharing an Index belong to the same call.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Fragment is one incremental unit of streamed model output.
//
// A fragment with a non-nil Err is always the last one on its channel.
type Fragment struct {
	Content      string
	ToolCalls    []ToolCallDelta
	FinishReason string
	Err          error
}

// IsEmpty reports whether f carries nothing worth showing.
func (f Fragment) IsEmpty() bool {
	return f.Content == "" && len(f.ToolCalls) == 0 && f.FinishReason == "" && f.Err == nil
}
