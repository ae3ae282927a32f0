package helper_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"pdfqa/internal/helper"
)

func TestGenerateUUID(t *testing.T) {
	a, err := helper.GenerateUUID()
	if err != nil {
		t.Fatalf("GenerateUUID() error = %v", err)
	}
	b, _ := helper.GenerateUUID()
	if a == b {
		t.Errorf("GenerateUUID() returned %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("GenerateUUID() = %q, not a uuid: %v", a, err)
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	helper.Fprint(&buf, map[string]int{"chunks": 3})
	want := "{\n  \"chunks\": 3\n}\n"
	if buf.String() != want {
		t.Errorf("Fprint() = %q, want %q", buf.String(), want)
	}
}
