package types

// Page is the envelope returned by every list endpoint.
type Page struct {
	Data     any   `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Message is the body of endpoints that only acknowledge an action.
type Message struct {
	Message string `json:"message"`
}
