package schema

import (
	"testing"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
)

type forecastArgs struct {
	City  string  `json:"city" jsonschema:"description=City to look up"`
	Days  int     `json:"days"`
	Units string  `json:"units,omitempty"`
	Lat   float64 `json:"lat,omitempty"`
}

func TestReflectParams(t *testing.T) {
	params := ReflectParams[forecastArgs]()
	if len(params) != 4 {
		t.Fatalf("expected 4 params, got %d: %+v", len(params), params)
	}

	// Declaration order is preserved.
	wantNames := []string{"city", "days", "units", "lat"}
	for i, name := range wantNames {
		if params[i].Name != name {
			t.Errorf("param %d: expected %s, got %s", i, name, params[i].Name)
		}
	}

	if params[0].Type != capability.TypeString {
		t.Errorf("city: expected string, got %s", params[0].Type)
	}
	if params[0].Description != "City to look up" {
		t.Errorf("city: description not carried over, got %q", params[0].Description)
	}
	if params[1].Type != capability.TypeNumber {
		t.Errorf("days: integer fields collapse to number, got %s", params[1].Type)
	}

	if !params[0].Required || !params[1].Required {
		t.Error("fields without omitempty are required")
	}
	if params[2].Required || params[3].Required {
		t.Error("omitempty fields are optional")
	}
}

func TestReflectSchema(t *testing.T) {
	s := ReflectSchema[forecastArgs]()
	if s.Type != "object" {
		t.Fatalf("expected object schema, got %q", s.Type)
	}
	if s.Properties["lat"].Type != "number" {
		t.Errorf("lat: expected number, got %s", s.Properties["lat"].Type)
	}
	if len(s.Required) != 2 {
		t.Errorf("expected 2 required properties, got %v", s.Required)
	}
}

func TestReflectParamsNonStruct(t *testing.T) {
	if params := ReflectParams[string](); params != nil {
		t.Errorf("expected nil params for non-object type, got %+v", params)
	}
}
