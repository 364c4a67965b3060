package palisdk

// Header names used by the service.
const (
	HeaderAPIKey        = "X-API-Key"
	HeaderRecoveryToken = "X-Recovery-Token"
)

// Key types accepted by CreateKeyRequest.
const (
	KeyTypeAdmin  = "admin"
	KeyTypeClient = "client"
)

// Envelope is the body shape of every JSON response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ============================================================================
// Keys
// ============================================================================

// KeyResponse is returned whenever a key is minted. APIKey is the plaintext
// secret and is never returned again.
type KeyResponse struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	KeyType    string `json:"key_type"`
	APIKey     string `json:"api_key"`
	CreatedAt  int64  `json:"created_at"`
}

// KeyInfo describes a stored key without any secret or hash material.
type KeyInfo struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	KeyType    string `json:"key_type"`
	LastUsed   *int64 `json:"last_used"`
	CreatedAt  int64  `json:"created_at"`
	Active     bool   `json:"active"`
	Protected  bool   `json:"protected"`
}

type CreateKeyRequest struct {
	ClientName string `json:"client_name"`
	KeyType    string `json:"key_type"`
}

// RevokeResponse reports what a delete did: "revoked", "already_revoked",
// "not_found" or, for a purge, "purged". All are successful responses.
type RevokeResponse struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
}

// ============================================================================
// Todos
// ============================================================================

// Todo timestamps are Unix seconds.
type Todo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    int     `json:"priority"`
	DueDate     *int64  `json:"due_date"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	DueDate     *int64  `json:"due_date,omitempty"`
}

// UpdateTodoRequest changes only the fields that are set.
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	DueDate     *int64  `json:"due_date,omitempty"`
}

// IDResolution maps an id prefix to the single todo it identifies.
type IDResolution struct {
	FullID string `json:"full_id"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
