package fields

import (
	"strings"
	"testing"

	"katydid-common-scoring/pkg/types"
)

func newProfileSchema(raw types.Extras) *Schema {
	return NewSchema(raw, []Entry{
		{"first_name", NewString(false, true)},
		{"last_name", NewString(false, true)},
		{"email", NewEmail(false, true)},
		{"phone", NewPhone(false, true)},
	})
}

func TestSchema_AllFieldsPass(t *testing.T) {
	s := newProfileSchema(types.Extras{
		"first_name": "Станислав",
		"last_name":  "Ступников",
		"email":      "stupnikov@otus.ru",
		"phone":      "79175002040",
	})
	joined, ok := s.Validate()
	if !ok {
		t.Errorf("Expected success, got %q", joined)
	}
	if joined != "" {
		t.Errorf("Expected empty message on success, got %q", joined)
	}
}

func TestSchema_AggregatesAllFailures(t *testing.T) {
	s := newProfileSchema(types.Extras{
		"email": "stupnikovotus.ru",
		"phone": "89175002040",
	})
	joined, ok := s.Validate()
	if ok {
		t.Fatal("Expected validation failure")
	}
	// 每个失败字段的消息都要出现在聚合结果里
	for _, want := range []string{"email", "must contain <@>", "phone", "must start with 7"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected %q in joined message %q", want, joined)
		}
	}
}

func TestSchema_FieldsIndependent(t *testing.T) {
	// 一个字段失败不影响其他字段的验证结果
	s := newProfileSchema(types.Extras{
		"email": "bad-email",
		"phone": "79175002040",
	})
	if _, ok := s.Validate(); ok {
		t.Fatal("Expected failure from email")
	}
	if !s.Field("phone").Present() {
		t.Error("Valid phone must still be stored")
	}
}

func TestSchema_DeterministicOrder(t *testing.T) {
	raw := types.Extras{"email": "x", "phone": "y"}
	first, _ := NewSchema(raw, []Entry{
		{"email", NewEmail(false, true)},
		{"phone", NewPhone(false, true)},
	}).Validate()
	second, _ := NewSchema(raw, []Entry{
		{"email", NewEmail(false, true)},
		{"phone", NewPhone(false, true)},
	}).Validate()
	if first != second {
		t.Errorf("Expected deterministic message order: %q vs %q", first, second)
	}
}

func TestSchema_RawAndNestedValue(t *testing.T) {
	raw := types.Extras{"arguments": map[string]any{"phone": "79175002040"}}
	s := NewSchema(raw, []Entry{{"arguments", NewArguments(true, true)}})
	if _, ok := s.Validate(); !ok {
		t.Fatal("Expected validation success")
	}
	if s.Raw().Len() != 1 {
		t.Errorf("Raw() = %v", s.Raw())
	}
	nested := s.Field("arguments").Extras()
	if !nested.Has("phone") || nested.Has("email") {
		t.Error("Expected nested value to reflect the validated input")
	}
}

func TestSchema_NilRaw(t *testing.T) {
	s := NewSchema(nil, []Entry{{"login", NewString(true, false)}})
	joined, ok := s.Validate()
	if ok || !strings.Contains(joined, "login") {
		t.Errorf("Expected required failure on nil input, got %q, %v", joined, ok)
	}
}
