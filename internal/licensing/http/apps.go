package http

import (
	"context"
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/httpx"
	"github.com/keyhaven/keyhaven/pkg/licensesdk"
)

func (h *ActionsHandler) handleCreateApp(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"app_name": req.AppName, "user_id": req.UserID}) {
		return
	}

	var apiKey string
	err := withRetry(ctx, func() error {
		var err error
		apiKey, err = h.Registry.CreateApplication(ctx, req.AppName, req.UserID)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.CreateAppResponse{
		Envelope: licensesdk.Envelope{Success: true, Message: "application created"},
		APIKey:   apiKey,
	})
}

func (h *ActionsHandler) handleDeleteApp(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"app_name": req.AppName, "user_id": req.UserID}) {
		return
	}

	err := withRetry(ctx, func() error {
		return h.Registry.DeleteApplication(ctx, req.AppName, req.UserID)
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, "application deleted")
}

func (h *ActionsHandler) handleGetApps(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"user_id": req.UserID}) {
		return
	}

	var listings []licensesdk.AppRecord
	err := withRetry(ctx, func() error {
		results, err := h.Registry.ListApplications(ctx, req.UserID)
		if err != nil {
			return err
		}

		listings = make([]licensesdk.AppRecord, 0, len(results))
		for _, l := range results {
			listings = append(listings, licensesdk.AppRecord{
				Name:      l.Name,
				APIKey:    l.APIKey,
				CreatedBy: l.CreatedBy,
				CreatedAt: l.CreatedAt,
				KeyCount:  l.KeyCount,
			})
		}
		return nil
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, licensesdk.ListAppsResponse{
		Envelope:     licensesdk.Envelope{Success: true},
		Applications: listings,
	})
}
