package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/keyhaven/keyhaven/internal/licensing/service"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
	"github.com/keyhaven/keyhaven/pkg/httpx"
	"github.com/keyhaven/keyhaven/pkg/licensesdk"
	"github.com/keyhaven/keyhaven/pkg/slogx"
)

const (
	retryAttempts = 3
	retryBaseWait = 100 * time.Millisecond
)

// ActionsHandler serves POST /v1/actions, the single action-tagged endpoint.
// The request body carries the dispatch key "action"; everything else is
// per-action. Business rejections respond 200 with success:false, missing
// fields 400, permission denials 403, store outage after retries 503.
type ActionsHandler struct {
	Access     *service.AccessService
	Registry   *service.RegistryService
	Keys       *service.KeyService
	Validation *service.ValidationService
	Support    *service.SupportService

	// Timeout bounds each request's store work.
	Timeout time.Duration
}

// ServeHTTP godoc
//
//	@Summary		Licensing Action Endpoint
//	@Description	Single dispatch endpoint for all licensing operations. The "action" field
//	@Description	selects the operation; see the request schema for per-action fields.
//	@Description	Business-rule rejections (duplicate name, banned/expired/limited key, ...)
//	@Description	return 200 with success=false and a human-readable message.
//	@Tags			Actions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		licensesdk.ActionRequest	true	"Action request"
//	@Success		200		{object}	licensesdk.Envelope			"Operation outcome"
//	@Failure		400		{object}	licensesdk.Envelope			"Missing or malformed fields"
//	@Failure		403		{object}	licensesdk.Envelope			"Permission denied"
//	@Failure		503		{object}	licensesdk.Envelope			"Store unavailable"
//	@Router			/v1/actions [post].
func (h *ActionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	var req licensesdk.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == "" {
		writeFailure(w, http.StatusBadRequest, "missing field: action")
		return
	}

	switch req.Action {
	case "create_app":
		h.handleCreateApp(ctx, w, req)
	case "delete_app":
		h.handleDeleteApp(ctx, w, req)
	case "create_key":
		h.handleCreateKey(ctx, w, req)
	case "delete_key":
		h.handleDeleteKey(ctx, w, req)
	case "ban_key":
		h.handleBanKey(ctx, w, req)
	case "check_key":
		h.handleCheckKey(ctx, w, req)
	case "reset_hwid":
		h.handleResetHWID(ctx, w, req)
	case "get_apps", "get_my_apps":
		h.handleGetApps(ctx, w, req)
	case "get_keys", "list_keys":
		h.handleGetKeys(ctx, w, req)
	case "add_support":
		h.handleAddSupport(ctx, w, req)
	case "delete_support":
		h.handleDeleteSupport(ctx, w, req)
	case "get_supports":
		h.handleGetSupports(ctx, w)
	case "validate_key":
		h.handleValidateKey(ctx, w, req)
	case "check_permission":
		h.handleCheckPermission(ctx, w, req)
	default:
		writeFailure(w, http.StatusBadRequest, "unknown action: "+req.Action)
	}
}

// requireFields writes a 400 and returns false if any named field is empty.
func requireFields(w http.ResponseWriter, fields map[string]string) bool {
	for name, value := range fields {
		if value == "" {
			writeFailure(w, http.StatusBadRequest, "missing field: "+name)
			return false
		}
	}
	return true
}

// requirePermission resolves access for (userID, apiKey) and writes a 403 on
// denial. Returns the permission and whether the caller may proceed.
func (h *ActionsHandler) requirePermission(ctx context.Context, w http.ResponseWriter, userID, apiKey string) bool {
	perm, err := h.Access.ResolvePermission(ctx, userID, apiKey)
	if err != nil {
		writeError(ctx, w, err)
		return false
	}
	if !perm.Granted {
		writeFailure(w, http.StatusForbidden, "permission denied")
		return false
	}
	return true
}

// withRetry runs op, retrying transient store unavailability with a short
// doubling backoff. Anything else fails immediately.
func withRetry(ctx context.Context, op func() error) error {
	wait := retryBaseWait

	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(wait):
			}
			wait *= 2
		}

		if err = op(); err == nil || !errors.Is(err, store.ErrUnavailable) {
			return err
		}
	}
	return err
}

func writeSuccess(w http.ResponseWriter, message string) {
	httpx.WriteJSON(w, http.StatusOK, licensesdk.Envelope{Success: true, Message: message})
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	httpx.WriteJSON(w, code, licensesdk.Envelope{Success: false, Message: message})
}

// writeRejection is a business-rule rejection: an expected outcome, not a
// fault, so the HTTP status stays 200.
func writeRejection(w http.ResponseWriter, message string) {
	httpx.WriteJSON(w, http.StatusOK, licensesdk.Envelope{Success: false, Message: message})
}

// writeError translates service/store errors into the response taxonomy.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	log := slogx.FromContext(ctx)

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		writeFailure(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, store.ErrUnavailable):
		log.Warn("store unavailable", "err", err)
		writeFailure(w, http.StatusServiceUnavailable, "service unavailable")
	case errors.Is(err, service.ErrAppExists):
		writeRejection(w, "application already exists")
	case errors.Is(err, service.ErrAppNotFound):
		writeRejection(w, "application not found")
	case errors.Is(err, service.ErrQuotaExceeded):
		writeRejection(w, "application limit reached")
	case errors.Is(err, service.ErrKeyNotFound):
		writeRejection(w, "key not found")
	case errors.Is(err, service.ErrKeyCollision):
		writeRejection(w, "key generation collided, retry")
	case errors.Is(err, service.ErrSupportExists):
		writeRejection(w, "support grant already exists")
	case errors.Is(err, service.ErrSupportNotFound):
		writeRejection(w, "support grant not found")
	default:
		log.Error("unexpected fault", "err", err)
		writeFailure(w, http.StatusInternalServerError, "internal error: "+err.Error())
	}
}
