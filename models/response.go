package models

type APIResponse struct {
    Status  string      `json:"status"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

// OperationResult is the uniform shape every mutating cart/checkout operation
// returns to its caller. Callers never receive a raised error; failures come
// back as Success=false with a user-displayable message.
type OperationResult struct {
    Success bool   `json:"success"`
    Message string `json:"message"`
}

func OK(message string) OperationResult {
    return OperationResult{Success: true, Message: message}
}

func Failed(message string) OperationResult {
    return OperationResult{Success: false, Message: message}
}
