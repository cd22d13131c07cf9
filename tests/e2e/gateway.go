//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeGateway is an in-memory payment provider speaking the same JSON the payment client sends.
type FakeGateway struct {
	server *httptest.Server

	mu       sync.Mutex
	seq      int
	statuses map[string]string
	refunds  map[string]string
}

func NewFakeGateway(t *testing.T) *FakeGateway {
	t.Helper()

	g := &FakeGateway{}
	g.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_intents", g.createIntent)
	mux.HandleFunc("GET /v1/payment_intents/{id}", g.getIntent)
	mux.HandleFunc("POST /v1/refunds", g.createRefund)

	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

func (g *FakeGateway) URL() string {
	return g.server.URL
}

func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses = map[string]string{}
	g.refunds = map[string]string{}
}

// SetStatus moves an intent the way the provider would after the customer pays.
func (g *FakeGateway) SetStatus(ref, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[ref] = status
}

// RefundFor returns the refund id issued for ref, if any.
func (g *FakeGateway) RefundFor(ref string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.refunds[ref]
	return id, ok
}

func (g *FakeGateway) createIntent(w http.ResponseWriter, _ *http.Request) {
	g.mu.Lock()
	g.seq++
	id := fmt.Sprintf("pi_%d", g.seq)
	g.statuses[id] = "requires_payment_method"
	g.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "requires_payment_method"})
}

func (g *FakeGateway) getIntent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	g.mu.Lock()
	status, ok := g.statuses[id]
	g.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such intent"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": status})
}

func (g *FakeGateway) createRefund(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentIntent string `json:"payment_intent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PaymentIntent == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_intent required"})
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// the Idempotency-Key makes a replayed refund return the first id
	if id, ok := g.refunds[body.PaymentIntent]; ok {
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	id := "re_" + strings.TrimPrefix(body.PaymentIntent, "pi_")
	g.refunds[body.PaymentIntent] = id
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
