package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/bottega-lab/maestro/pkg/domain/model"
	"github.com/bottega-lab/maestro/pkg/repository/memory"
	"github.com/bottega-lab/maestro/pkg/usecase"

	httpctrl "github.com/bottega-lab/maestro/pkg/controller/http"
)

const testSecret = "webhook-test-secret"

func sign(secret string, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func newWebhookServer() *httpctrl.Server {
	uc := usecase.New(memory.New())
	return httpctrl.New(uc, httpctrl.WithWebhookSecret(testSecret))
}

func webhookRequest(body []byte, timestamp, signature, topic string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/hooks/commerce/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if timestamp != "" {
		req.Header.Set("X-Maestro-Timestamp", timestamp)
	}
	if signature != "" {
		req.Header.Set("X-Maestro-Signature", signature)
	}
	if topic != "" {
		req.Header.Set("X-Maestro-Topic", topic)
	}
	return req
}

func TestCommerceWebhook(t *testing.T) {
	t.Run("valid signature is accepted immediately", func(t *testing.T) {
		srv := newWebhookServer()

		body := []byte(`{"id":"prod-42","title":"Cordless Drill"}`)
		ts := strconv.FormatInt(time.Now().Unix(), 10)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest(body, ts, sign(testSecret, ts, body), "product.created"))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"accepted":true`)
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		srv := newWebhookServer()

		body := []byte(`{"id":"prod-42"}`)
		ts := strconv.FormatInt(time.Now().Unix(), 10)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest(body, ts, sign("wrong-secret", ts, body), "product.created"))

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		srv := newWebhookServer()

		body := []byte(`{"id":"prod-42"}`)
		ts := strconv.FormatInt(time.Now().Unix(), 10)
		signature := sign(testSecret, ts, body)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest([]byte(`{"id":"prod-43"}`), ts, signature, "product.created"))

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("stale timestamp is rejected", func(t *testing.T) {
		srv := newWebhookServer()

		body := []byte(`{"id":"prod-42"}`)
		ts := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest(body, ts, sign(testSecret, ts, body), "product.created"))

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("future timestamp is rejected", func(t *testing.T) {
		srv := newWebhookServer()

		body := []byte(`{"id":"prod-42"}`)
		ts := strconv.FormatInt(time.Now().Add(10*time.Minute).Unix(), 10)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest(body, ts, sign(testSecret, ts, body), "product.created"))

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("missing signature headers are rejected", func(t *testing.T) {
		srv := newWebhookServer()

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest([]byte(`{}`), "", "", "product.created"))

		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("missing topic is a bad request", func(t *testing.T) {
		srv := newWebhookServer()

		body := []byte(`{"id":"prod-42"}`)
		ts := strconv.FormatInt(time.Now().Unix(), 10)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest(body, ts, sign(testSecret, ts, body), ""))

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("without a secret the webhook route is absent", func(t *testing.T) {
		srv := httpctrl.New(usecase.New(memory.New()))

		body := []byte(`{"id":"prod-42"}`)
		ts := strconv.FormatInt(time.Now().Unix(), 10)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, webhookRequest(body, ts, sign(testSecret, ts, body), "product.created"))

		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}

type staticSkill struct {
	name string
	fail bool
}

func (s *staticSkill) Metadata() model.SkillMetadata {
	return model.SkillMetadata{Name: s.name, Version: "1.0.0"}
}

func (s *staticSkill) Validate(ctx context.Context, sctx *model.SkillContext) string {
	return ""
}

func (s *staticSkill) Execute(ctx context.Context, sctx *model.SkillContext) (*model.SkillResult, error) {
	if s.fail {
		return model.NewFailedResult("nope", "intentional"), nil
	}
	return model.NewSuccessResult("ok", nil), nil
}

func (s *staticSkill) Status() model.SkillStatus {
	return model.SkillStatus{Available: true}
}

func TestTriggerEndpoint(t *testing.T) {
	t.Run("failed execution still answers 200 with success false", func(t *testing.T) {
		uc := usecase.New(memory.New())
		uc.Registry.Register(context.Background(), &staticSkill{name: "breaks", fail: true})
		srv := httpctrl.New(uc)

		req := httptest.NewRequest(http.MethodPost, "/api/skills/breaks/trigger",
			bytes.NewReader([]byte(`{"payload":{}}`)))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"Success":false`)
	})

	t.Run("unknown skill also answers 200", func(t *testing.T) {
		srv := httpctrl.New(usecase.New(memory.New()))

		req := httptest.NewRequest(http.MethodPost, "/api/skills/ghost/trigger",
			bytes.NewReader([]byte(`{"payload":{}}`)))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"Success":false`)
	})
}

func TestQueueCallback(t *testing.T) {
	t.Run("successful delivery answers 200", func(t *testing.T) {
		uc := usecase.New(memory.New())
		uc.Registry.Register(context.Background(), &staticSkill{name: "works"})
		srv := httpctrl.New(uc)

		req := httptest.NewRequest(http.MethodPost, "/api/queue/callback",
			bytes.NewReader([]byte(`{"skillName":"works","payload":{"id":"prod-1"},"source":"remote-queue"}`)))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"delivered":true`)
	})

	t.Run("failed delivery answers 500 so the transport retries", func(t *testing.T) {
		uc := usecase.New(memory.New())
		uc.Registry.Register(context.Background(), &staticSkill{name: "breaks", fail: true})
		srv := httpctrl.New(uc)

		req := httptest.NewRequest(http.MethodPost, "/api/queue/callback",
			bytes.NewReader([]byte(`{"skillName":"breaks","source":"remote-queue"}`)))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusInternalServerError)
	})

	t.Run("missing skill name is a bad request", func(t *testing.T) {
		srv := httpctrl.New(usecase.New(memory.New()))

		req := httptest.NewRequest(http.MethodPost, "/api/queue/callback",
			bytes.NewReader([]byte(`{"payload":{}}`)))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})
}
