// Package response renders the uniform success/error envelope shared by every
// endpoint.
package response

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func Success(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func Error(code, message string, details interface{}) Envelope {
	return Envelope{
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
	}
}
