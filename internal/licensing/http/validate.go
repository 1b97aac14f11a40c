package http

import (
	"context"
	"net/http"

	"github.com/keyhaven/keyhaven/internal/licensing/domain"
	"github.com/keyhaven/keyhaven/pkg/licensesdk"
)

// handleValidateKey is the only ungated action; end-user binaries call it
// with nothing but the application's api key and their license key.
func (h *ActionsHandler) handleValidateKey(ctx context.Context, w http.ResponseWriter, req licensesdk.ActionRequest) {
	if !requireFields(w, map[string]string{"api": req.API, "key": req.Key, "hwid": req.HWID}) {
		return
	}

	var result domain.ValidationResult
	err := withRetry(ctx, func() error {
		var err error
		result, err = h.Validation.Validate(ctx, req.API, req.Key, req.HWID, req.SystemInfo)
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if !result.OK {
		writeRejection(w, result.Reason)
		return
	}
	writeSuccess(w, "key valid")
}
