package http

import (
	"context"
	"net/http"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/pkg/httpx"
	"github.com/keyhaven/keyhaven/pkg/licensesdk"
)

func (h *ActionsHandler) handleCreateKey(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"api": req.API, "prefix": req.Prefix, "user_id": req.UserID}) {
		return
	}
	if req.Days <= 0 {
		writeFailure(w, http.StatusBadRequest, "missing field: days")
		return
	}
	if !h.requirePermission(ctx, w, req.UserID, req.API) {
		return
	}

	var key string
	err := withRetry(ctx, func() error {
		var err error
		key, err = h.Keys.CreateKey(ctx, req.API, req.Prefix, req.Days, req.DeviceLimit)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.CreateKeyResponse{
		Envelope: licensesdk.Envelope{Success: true, Message: "key created"},
		Key:      key,
	})
}

func (h *ActionsHandler) handleDeleteKey(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"api": req.API, "key": req.Key, "user_id": req.UserID}) {
		return
	}
	if !h.requirePermission(ctx, w, req.UserID, req.API) {
		return
	}

	var ok bool
	err := withRetry(ctx, func() error {
		var err error
		ok, err = h.Keys.DeleteKey(ctx, req.API, req.Key)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeRejection(w, "key not found")
		return
	}

	writeSuccess(w, "key deleted")
}

func (h *ActionsHandler) handleBanKey(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"api": req.API, "key": req.Key, "user_id": req.UserID}) {
		return
	}
	if !h.requirePermission(ctx, w, req.UserID, req.API) {
		return
	}

	var ok bool
	err := withRetry(ctx, func() error {
		var err error
		ok, err = h.Keys.BanKey(ctx, req.API, req.Key)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeRejection(w, "key not found")
		return
	}

	writeSuccess(w, "key banned")
}

func (h *ActionsHandler) handleCheckKey(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"api": req.API, "key": req.Key, "user_id": req.UserID}) {
		return
	}
	if !h.requirePermission(ctx, w, req.UserID, req.API) {
		return
	}

	var k domain.Key
	err := withRetry(ctx, func() error {
		var err error
		k, err = h.Keys.InspectKey(ctx, req.API, req.Key)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.CheckKeyResponse{
		Envelope: licensesdk.Envelope{Success: true},
		KeyRecord: &licensesdk.KeyRecord{
			Key:         k.Key,
			Prefix:      k.Prefix,
			DeviceLimit: k.DeviceLimit,
			Banned:      k.Banned,
			Used:        k.Used,
			SystemInfo:  k.SystemInfo,
			HWIDs:       k.HWIDs,
			FirstUsed:   k.FirstUsed,
			ExpiresAt:   k.ExpiresAt,
			CreatedAt:   k.CreatedAt,
		},
	})
}

func (h *ActionsHandler) handleResetHWID(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"api": req.API, "key": req.Key, "user_id": req.UserID}) {
		return
	}
	if !h.requirePermission(ctx, w, req.UserID, req.API) {
		return
	}

	var ok bool
	err := withRetry(ctx, func() error {
		var err error
		ok, err = h.Keys.ResetBinding(ctx, req.API, req.Key)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeRejection(w, "key not found")
		return
	}

	writeSuccess(w, "key binding reset")
}

func (h *ActionsHandler) handleGetKeys(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"api": req.API, "user_id": req.UserID}) {
		return
	}
	if !h.requirePermission(ctx, w, req.UserID, req.API) {
		return
	}

	var summaries []licensesdk.KeySummary
	err := withRetry(ctx, func() error {
		keys, err := h.Keys.ListKeys(ctx, req.API)
		if err != nil {
			return err
		}

		// Listing exposes the restricted view only.
		summaries = make([]licensesdk.KeySummary, 0, len(keys))
		for _, k := range keys {
			summaries = append(summaries, licensesdk.KeySummary{
				Key:       k.Key,
				Used:      k.Used,
				Banned:    k.Banned,
				ExpiresAt: k.ExpiresAt,
				CreatedAt: k.CreatedAt,
				HWIDs:     k.HWIDs,
			})
		}
		return nil
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.ListKeysResponse{
		Envelope: licensesdk.Envelope{Success: true},
		Keys:     summaries,
	})
}
