package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetDatasetProfileHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dataset/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := GetDatasetProfileHandler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var schema map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &schema); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties object")
	}
	for _, field := range []string{"@context", "@type", "distribution", "recordSet"} {
		if _, ok := props[field]; !ok {
			t.Errorf("schema is missing property %q", field)
		}
	}

	required, ok := schema["required"].([]any)
	if !ok {
		t.Fatalf("schema has no required list")
	}
	found := false
	for _, r := range required {
		if r == "@context" {
			found = true
		}
	}
	if !found {
		t.Errorf("@context should be required, got %v", required)
	}
}

func TestGetIndexHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := GetIndexHandler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if _, ok := body.Endpoints["register"]; !ok {
		t.Errorf("endpoint index is missing register route")
	}
}
