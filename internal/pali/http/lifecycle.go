package http

import (
	"net/http"

	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/pkg/httpx"
)

// LifecycleHandler serves the unauthenticated initialize and reinitialize
// endpoints. They are guarded by server state, not by an API key.
type LifecycleHandler struct {
	LifecycleService *service.LifecycleService
}

// HandleInitialize handles POST /initialize
//
//	@Summary		Initialize the server
//	@Description	Mints the first admin API key. Succeeds only while no admin key has ever existed.
//	@Description	The plaintext key is returned once and cannot be recovered.
//	@Tags			Lifecycle
//	@Produce		json
//	@Param			X-Recovery-Token	header		string										false	"Required when the server is configured with a recovery token"
//	@Success		200					{object}	palisdk.Envelope[palisdk.KeyResponse]		"new admin key"
//	@Failure		401					{object}	palisdk.Envelope[any]						"invalid recovery token"
//	@Failure		409					{object}	palisdk.Envelope[any]						"already initialized"
//	@Failure		500					{object}	palisdk.Envelope[any]						"internal error"
//	@Failure		503					{object}	palisdk.Envelope[any]						"credential store unavailable"
//	@Router			/initialize [post].
func (h *LifecycleHandler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	key, err := h.LifecycleService.Bootstrap(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, keyResponse(key))
}

// HandleReinitialize handles POST /reinitialize
//
//	@Summary		Reinitialize admin keys
//	@Description	Emergency recovery: revokes every admin key and mints a single replacement in one transaction.
//	@Description	Client keys are unaffected.
//	@Tags			Lifecycle
//	@Produce		json
//	@Param			X-Recovery-Token	header		string									false	"Required when the server is configured with a recovery token"
//	@Success		200					{object}	palisdk.Envelope[palisdk.KeyResponse]	"new admin key"
//	@Failure		400					{object}	palisdk.Envelope[any]					"server not initialized"
//	@Failure		401					{object}	palisdk.Envelope[any]					"invalid recovery token"
//	@Failure		500					{object}	palisdk.Envelope[any]					"internal error"
//	@Failure		503					{object}	palisdk.Envelope[any]					"credential store unavailable"
//	@Router			/reinitialize [post].
func (h *LifecycleHandler) HandleReinitialize(w http.ResponseWriter, r *http.Request) {
	key, err := h.LifecycleService.Reinitialize(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, keyResponse(key))
}

// HandleRotateGone handles POST /admin/keys/rotate, which was replaced by
// /reinitialize.
//
//	@Summary		Rotate admin key (removed)
//	@Tags			Lifecycle
//	@Produce		json
//	@Failure		410	{object}	palisdk.Envelope[any]	"use POST /reinitialize"
//	@Router			/admin/keys/rotate [post].
func HandleRotateGone(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(w, http.StatusGone, "Use POST /reinitialize for admin key rotation")
}
