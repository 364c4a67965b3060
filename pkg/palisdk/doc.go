/*
Package palisdk provides a client SDK for the pali API-key and todo service.

# Overview

Every response from the service is wrapped in an envelope:

	{"success": true, "data": ...}
	{"success": false, "error": "invalid API key"}

The Client unwraps the envelope and returns the data, or an *APIError
carrying the HTTP status and the server's message.

# Lifecycle

A fresh server has no keys. The first admin key is minted once:

	client := palisdk.NewClient("http://localhost:8080", "")
	key, err := client.Initialize(ctx)
	// key.APIKey is shown only once; store it safely.

If every admin key is lost, Reinitialize revokes all admin keys and returns a
new one. Both calls send the recovery token when the server is configured
with one:

	client.RecoveryToken = os.Getenv("PALI_RECOVERY_TOKEN")
	key, err := client.Reinitialize(ctx)

# Keys and todos

Admin keys manage other keys; any active key may use the todo collection:

	admin := client.WithAPIKey(key.APIKey)
	ci, err := admin.GenerateKey(ctx, palisdk.CreateKeyRequest{ClientName: "ci", KeyType: palisdk.KeyTypeClient})

	todos := client.WithAPIKey(ci.APIKey)
	todo, err := todos.CreateTodo(ctx, palisdk.CreateTodoRequest{Title: "ship it"})

# Errors

	var apiErr *palisdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		// key missing, revoked, or unknown
	}
*/
package palisdk
