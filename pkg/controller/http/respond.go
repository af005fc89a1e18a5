package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bottega-lab/maestro/pkg/repository/memory"
	"github.com/bottega-lab/maestro/pkg/utils/errutil"
	"github.com/bottega-lab/maestro/pkg/utils/logging"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err)
	}
}

// respondError maps repository not-found errors to 404 and everything else
// to 500
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, memory.ErrNotFound) {
		status = http.StatusNotFound
	}
	errutil.HandleHTTP(ctx, w, err, status)
}
