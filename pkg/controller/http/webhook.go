package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bottega-lab/maestro/pkg/domain/types"
	"github.com/bottega-lab/maestro/pkg/utils/async"
	"github.com/bottega-lab/maestro/pkg/utils/errutil"
)

const (
	headerSignature = "X-Maestro-Signature"
	headerTimestamp = "X-Maestro-Timestamp"
	headerTopic     = "X-Maestro-Topic"

	// signatureMaxAge bounds replay of captured webhook deliveries
	signatureMaxAge = 5 * time.Minute
)

// verifySignature verifies the webhook request signature.
// This is a pure function that can be used independently for testing.
func verifySignature(secret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	skew := now - ts
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(signatureMaxAge.Seconds()) {
		return goerr.New("timestamp out of range", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(secret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SignatureMiddleware verifies webhook request signatures and replays the
// body for downstream handlers
func SignatureMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			_ = r.Body.Close()

			if err := verifySignature(secret,
				r.Header.Get(headerTimestamp),
				r.Header.Get(headerSignature),
				body,
			); err != nil {
				errutil.HandleHTTP(ctx, w, err, http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// handleCommerceWebhook accepts a verified e-commerce platform delivery,
// acknowledges it immediately and dispatches matching hooks in the
// background. A 200 is returned even when dispatch later fails: upstream
// senders that retry aggressively on non-2xx must not be provoked by
// internal failures.
func (s *Server) handleCommerceWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	topic := r.Header.Get(headerTopic)
	if topic == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing topic header"), http.StatusBadRequest)
		return
	}

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid webhook payload"), http.StatusBadRequest)
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := s.uc.EmitEvent(ctx, types.EventName(topic), data, "webhook")
		return err
	})

	respondJSON(ctx, w, http.StatusOK, map[string]any{"accepted": true, "topic": topic})
}
