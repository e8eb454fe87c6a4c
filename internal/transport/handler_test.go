package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-vision-tools/internal/config"
	"go-vision-tools/internal/observer"
	"go-vision-tools/internal/tools"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     30 * time.Second,
		OperationTimeout:   5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
}

func testHandler() http.Handler {
	gin.SetMode(gin.TestMode)

	reg := tools.NewRegistry()
	reg.Register(tools.Tool{
		Name:        "echo_tool",
		Description: "Echoes its argument back",
		Handler: func(ctx context.Context, args tools.Arguments) string {
			return `{"success":true,"echo":"` + args.String("value") + `"}`
		},
	})
	return NewHandler(reg, testConfig(), nil)
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := observer.NewMetricsObserver()
	handler := NewHandler(tools.NewRegistry(), testConfig(), metrics)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total_operations":0`) {
		t.Errorf("Expected counters in body, got %s", w.Body.String())
	}
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	testHandler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without a metrics observer, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	testHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"available"`) {
		t.Errorf("Expected health status, got %s", w.Body.String())
	}
}

func TestListTools(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tools", nil)
	testHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"name":"echo_tool"`) {
		t.Errorf("Expected tool listing, got %s", w.Body.String())
	}
}

func TestInvokeTool(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tools/echo_tool", strings.NewReader(`{"value":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	testHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), `"echo":"hello"`) {
		t.Errorf("Expected echoed value, got %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestInvokeTool_EmptyBody(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tools/echo_tool", nil)
	testHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected empty body to mean empty arguments, got %d", w.Code)
	}
}

func TestInvokeTool_Unknown(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tools/no_such_tool", strings.NewReader(`{}`))
	testHandler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unknown tool: no_such_tool") {
		t.Errorf("Expected unknown tool message, got %s", w.Body.String())
	}
}

func TestInvokeTool_MalformedBody(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tools/echo_tool", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	testHandler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
