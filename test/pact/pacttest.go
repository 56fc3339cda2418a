//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "it-literature-shop-api"
	ConsumerName = "it-literature-frontend"

	StateNoAccounts    = "no accounts exist"
	StateReaderExists  = "account reader@example.com exists"
	StateCatalogSeeded = "genres Database and Programming exist"
	StateStockedBook   = "book Clean Code is in stock"
)

const (
	ReaderUsername = "reader"
	ReaderEmail    = "reader@example.com"
	ReaderPassword = "password123"

	StockedBookID    = "5b0c8a3e-6a43-4c35-9d52-8f0e3b5d2a11"
	StockedBookTitle = "Clean Code"
	StockedBookPrice = 45.5

	// ExampleToken stands in for a real JWT; the provider swaps in a valid one.
	ExampleToken = "eyJhbGciOiJIUzI1NiJ9.pact.token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the frontend consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleRegistration provides stable sign-up data for pact interactions.
func ExampleRegistration() map[string]any {
	return map[string]any{
		"username": ReaderUsername,
		"email":    ReaderEmail,
		"password": ReaderPassword,
	}
}

// ExampleCredentials provides stable login data.
func ExampleCredentials() map[string]any {
	return map[string]any{
		"email":    ReaderEmail,
		"password": ReaderPassword,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
