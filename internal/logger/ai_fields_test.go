package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: FieldProvider, Value: "gemini"},
		StringField{Key: FieldModel, Value: "  gemini-2.5-flash  "},
		StringField{Key: "", Value: "dropped"},
		StringField{Key: "empty_value", Value: "   "},
	)

	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	if fields[0].Key != FieldProvider || fields[0].String != "gemini" {
		t.Errorf("fields[0] = %s=%s", fields[0].Key, fields[0].String)
	}
	if fields[1].Key != FieldModel || fields[1].String != "gemini-2.5-flash" {
		t.Errorf("fields[1] = %s=%s, want trimmed model", fields[1].Key, fields[1].String)
	}
}

func TestStringFieldsEmpty(t *testing.T) {
	if got := StringFields(); len(got) != 0 {
		t.Errorf("StringFields() = %v, want empty", got)
	}
}

func TestWithCommonFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	WithCommonFields(zap.New(core), "gemini", "gemini-2.5-flash").Info("probe")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Errorf("%s = %v, want gemini", FieldProvider, ctx[FieldProvider])
	}
	if ctx[FieldModel] != "gemini-2.5-flash" {
		t.Errorf("%s = %v, want gemini-2.5-flash", FieldModel, ctx[FieldModel])
	}
}

func TestWithCommonFieldsNilLogger(t *testing.T) {
	if WithCommonFields(nil, "", "") == nil {
		t.Error("expected a usable logger for nil input")
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{true, false} {
		for _, debug := range []bool{true, false} {
			log, err := New(json, debug)
			if err != nil {
				t.Fatalf("New(%v, %v) returned error: %v", json, debug, err)
			}
			if log == nil {
				t.Errorf("New(%v, %v) returned nil", json, debug)
			}
		}
	}
}
