package http

import (
	"context"
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/httpx"
	"github.com/keyhaven/keyhaven/pkg/licensesdk"
)

func (h *ActionsHandler) handleAddSupport(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"user_id": req.UserID, "admin_id": req.AdminID}) {
		return
	}

	err := withRetry(ctx, func() error {
		return h.Support.AddSupport(ctx, req.UserID, req.AdminID)
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, "support grant added")
}

func (h *ActionsHandler) handleDeleteSupport(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"user_id": req.UserID, "admin_id": req.AdminID}) {
		return
	}

	err := withRetry(ctx, func() error {
		return h.Support.RemoveSupport(ctx, req.UserID, req.AdminID)
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, "support grant removed")
}

func (h *ActionsHandler) handleGetSupports(ctx context.Context, w http.ResponseWriter) {
	var records []licensesdk.SupportRecord
	err := withRetry(ctx, func() error {
		grants, err := h.Support.ListSupports(ctx)
		if err != nil {
			return err
		}

		records = make([]licensesdk.SupportRecord, 0, len(grants))
		for _, g := range grants {
			records = append(records, licensesdk.SupportRecord{
				UserID:  g.UserID,
				AddedBy: g.AddedBy,
				AddedAt: g.AddedAt,
			})
		}
		return nil
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.SupportsResponse{
		Envelope: licensesdk.Envelope{Success: true},
		Supports: records,
	})
}
