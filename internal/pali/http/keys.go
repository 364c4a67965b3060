package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/pkg/httpx"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
)

// KeysHandler serves the admin key management endpoints.
type KeysHandler struct {
	LifecycleService *service.LifecycleService
}

// HandleGenerate handles POST /admin/keys/generate
//
//	@Summary		Generate API key
//	@Description	Mints a new admin or client key. The plaintext key is returned once.
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			request	body		palisdk.CreateKeyRequest				true	"client_name (1-100 chars) and key_type (admin or client)"
//	@Success		200		{object}	palisdk.Envelope[palisdk.KeyResponse]	"new key"
//	@Failure		400		{object}	palisdk.Envelope[any]					"invalid request"
//	@Failure		401		{object}	palisdk.Envelope[any]					"missing or invalid API key"
//	@Failure		403		{object}	palisdk.Envelope[any]					"admin privileges required"
//	@Router			/admin/keys/generate [post].
func (h *KeysHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req palisdk.CreateKeyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// Unknown roles fall through to the service, which rejects them.
	role, ok := domain.ParseRole(req.KeyType)
	if !ok {
		role = domain.Role(req.KeyType)
	}

	key, err := h.LifecycleService.Issue(r.Context(), identityFromContext(r.Context()), req.ClientName, role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, keyResponse(key))
}

// HandleList handles GET /admin/keys
//
//	@Summary		List API keys
//	@Description	Returns every key, newest first. Secrets and hashes are never included.
//	@Tags			Keys
//	@Produce		json
//	@Security		APIKeyAuth
//	@Success		200	{object}	palisdk.Envelope[[]palisdk.KeyInfo]	"keys"
//	@Failure		401	{object}	palisdk.Envelope[any]				"missing or invalid API key"
//	@Failure		403	{object}	palisdk.Envelope[any]				"admin privileges required"
//	@Router			/admin/keys [get].
func (h *KeysHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	creds, err := h.LifecycleService.List(r.Context(), identityFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]palisdk.KeyInfo, len(creds))
	for i, c := range creds {
		out[i] = keyInfo(c)
	}
	httpx.WriteSuccess(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /admin/keys/{id}
//
//	@Summary		Revoke or purge API key
//	@Description	Revokes the key. Revoking an unknown or already revoked key succeeds; the outcome field says which case applied.
//	@Description	With purge=true the key is deleted permanently instead, unless it is protected.
//	@Tags			Keys
//	@Produce		json
//	@Security		APIKeyAuth
//	@Param			id		path		string									true	"key ID"
//	@Param			purge	query		bool									false	"delete permanently"
//	@Success		200		{object}	palisdk.Envelope[palisdk.RevokeResponse]	"outcome"
//	@Failure		401		{object}	palisdk.Envelope[any]					"missing or invalid API key"
//	@Failure		403		{object}	palisdk.Envelope[any]					"admin privileges required"
//	@Failure		404		{object}	palisdk.Envelope[any]					"purge of unknown key"
//	@Failure		409		{object}	palisdk.Envelope[any]					"purge of protected key"
//	@Router			/admin/keys/{id} [delete].
func (h *KeysHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	caller := identityFromContext(ctx)

	if purge, _ := strconv.ParseBool(r.URL.Query().Get("purge")); purge {
		if err := h.LifecycleService.Purge(ctx, caller, id); err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteSuccess(w, http.StatusOK, palisdk.RevokeResponse{ID: id, Outcome: "purged"})
		return
	}

	outcome, err := h.LifecycleService.Revoke(ctx, caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, palisdk.RevokeResponse{ID: id, Outcome: string(outcome)})
}
