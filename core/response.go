package core

// Attribute is a key-value pair attached to a response for off-chain indexers
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is a typed group of attributes
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Response is returned by the mutating entry points
type Response struct {
	Attributes []Attribute `json:"attributes"`
	Events     []Event     `json:"events,omitempty"`
	Data       []byte      `json:"data,omitempty"`
}

// NewResponse returns an empty response
func NewResponse() *Response {
	return &Response{}
}

// AddAttribute appends an attribute and returns the response for chaining
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddEvent appends a custom event
func (r *Response) AddEvent(typ string, attrs ...Attribute) *Response {
	r.Events = append(r.Events, Event{Type: typ, Attributes: attrs})
	return r
}

// SetData sets the binary payload returned to the caller
func (r *Response) SetData(data []byte) *Response {
	r.Data = data
	return r
}

// Attribute returns the first value stored under key
func (r *Response) Attribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}
