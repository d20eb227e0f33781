package web

import (
	"io/fs"
	"strings"
	"testing"
)

func TestStaticStylesheet(t *testing.T) {
	data, err := fs.ReadFile(Static(), "css/app.css")
	if err != nil {
		t.Fatalf("read css/app.css: %v", err)
	}
	if !strings.Contains(string(data), ".recipe") {
		t.Error("stylesheet should style the recipe cards")
	}
}
