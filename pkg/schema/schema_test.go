package schema

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/mcpkit/mcp-registry-go/pkg/capability"
)

func TestBuildSkipsHiddenParams(t *testing.T) {
	s := Build([]capability.ParamSpec{
		capability.Param("city", "City name", capability.TypeString),
		capability.NotifierParam(),
	})

	if len(s.Properties) != 1 {
		t.Fatalf("expected 1 property, got %d", len(s.Properties))
	}
	if _, ok := s.Properties["notifier"]; ok {
		t.Error("hidden parameter leaked into schema properties")
	}
	if !reflect.DeepEqual(s.Required, []string{"city"}) {
		t.Errorf("expected required [city], got %v", s.Required)
	}
}

func TestBuildRequiredDeclarationOrder(t *testing.T) {
	s := Build([]capability.ParamSpec{
		capability.Param("zeta", "", capability.TypeString),
		capability.Param("alpha", "", capability.TypeNumber),
		capability.Param("mid", "", capability.TypeBoolean).Optional(),
		capability.Param("omega", "", capability.TypeArray),
	})

	want := []string{"zeta", "alpha", "omega"}
	if !reflect.DeepEqual(s.Required, want) {
		t.Errorf("expected required %v in declaration order, got %v", want, s.Required)
	}
}

func TestBuildTypeNames(t *testing.T) {
	s := Build([]capability.ParamSpec{
		capability.Param("a", "", capability.TypeString),
		capability.Param("b", "", capability.TypeBoolean),
		capability.Param("c", "", capability.TypeNumber),
		capability.Param("d", "", capability.TypeArray),
		capability.Param("e", "", capability.TypeObject),
		capability.Param("f", "", capability.SemanticType("mystery")),
	})

	want := map[string]string{
		"a": "string", "b": "boolean", "c": "number",
		"d": "array", "e": "object", "f": "object",
	}
	for name, typ := range want {
		if got := s.Properties[name].Type; got != typ {
			t.Errorf("property %s: expected type %s, got %s", name, typ, got)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	params := []capability.ParamSpec{
		capability.Param("city", "City name", capability.TypeString),
		capability.Param("units", "Unit system", capability.TypeString).Optional(),
	}

	a, _ := json.Marshal(Build(params))
	b, _ := json.Marshal(Build(params))
	if string(a) != string(b) {
		t.Errorf("identical parameter lists produced different schemas:\n%s\n%s", a, b)
	}
}

func TestBuildEmptyParams(t *testing.T) {
	s := Build(nil)
	if s.Type != "object" {
		t.Errorf("expected object schema, got %q", s.Type)
	}
	if len(s.Properties) != 0 || len(s.Required) != 0 {
		t.Errorf("expected empty schema, got %+v", s)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `{"type":"object","properties":{}}` {
		t.Errorf("unexpected serialization: %s", raw)
	}
}
