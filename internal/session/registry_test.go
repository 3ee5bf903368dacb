package session_test

import (
	"errors"
	"testing"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/session"
)

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name    string
		options []models.ModelOption
		wantErr bool
	}{
		{
			name:    "empty catalog",
			options: nil,
			wantErr: true,
		},
		{
			name: "empty id",
			options: []models.ModelOption{
				{ID: "", Label: "Broken"},
			},
			wantErr: true,
		},
		{
			name: "duplicate id",
			options: []models.ModelOption{
				{ID: "a", Label: "A"},
				{ID: "a", Label: "A again"},
			},
			wantErr: true,
		},
		{
			name: "valid catalog",
			options: []models.ModelOption{
				{ID: "a", Label: "A"},
				{ID: "b", Label: "B", ReasoningEnabled: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.NewRegistry(tt.options)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRegistry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryResolve(t *testing.T) {
	registry, err := session.NewRegistry(testCatalog())
	if err != nil {
		t.Fatal(err)
	}

	opt, err := registry.Resolve("extended")
	if err != nil {
		t.Fatalf("Resolve(extended) error = %v", err)
	}
	if !opt.ReasoningEnabled {
		t.Error("extended entry should have reasoning enabled")
	}

	_, err = registry.Resolve("missing")
	if !errors.Is(err, session.ErrUnknownModel) {
		t.Errorf("Resolve(missing) error = %v, want ErrUnknownModel", err)
	}
}

func TestRegistryDefault(t *testing.T) {
	registry, err := session.NewRegistry(testCatalog())
	if err != nil {
		t.Fatal(err)
	}

	if got := registry.Default().ID; got != "standard" {
		t.Errorf("Default() = %q, want first catalog entry %q", got, "standard")
	}
}

func TestRegistryOptionsIsACopy(t *testing.T) {
	registry, err := session.NewRegistry(testCatalog())
	if err != nil {
		t.Fatal(err)
	}

	opts := registry.Options()
	opts[0].ID = "tampered"

	if registry.Default().ID == "tampered" {
		t.Error("mutating Options() result leaked into the registry")
	}
}
