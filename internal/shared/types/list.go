package types

// ListOptions bounds list queries.
type ListOptions struct {
	Limit  int `json:"limit,omitempty" form:"limit"`
	Offset int `json:"offset,omitempty" form:"offset"`
}

// DefaultListLimit caps list responses when the caller gives no limit.
const DefaultListLimit = 100

// Clamp normalizes the options to sane bounds.
func (o ListOptions) Clamp() ListOptions {
	if o.Limit <= 0 || o.Limit > DefaultListLimit {
		o.Limit = DefaultListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
