package http

import (
	"context"
	"net/http"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/pkg/httpx"
	"github.com/keyhaven/keyhaven/pkg/licensesdk"
)

// handleCheckPermission reports what user_id may do, plus its application
// quota usage. The api field is optional; without it only elevated actors
// come back with has_permission=true.
func (h *ActionsHandler) handleCheckPermission(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"user_id": req.UserID}) {
		return
	}

	var (
		perm         domain.Permission
		count, limit int
	)
	err := withRetry(ctx, func() error {
		var err error
		perm, err = h.Access.ResolvePermission(ctx, req.UserID, req.API)
		if err != nil {
			return err
		}
		count, limit, err = h.Access.ApplicationQuota(ctx, req.UserID)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.PermissionResponse{
		Envelope:      licensesdk.Envelope{Success: true},
		HasPermission: perm.Granted,
		IsAdmin:       perm.IsMainAdmin,
		AppCount:      count,
		MaxApps:       limit,
	})
}
