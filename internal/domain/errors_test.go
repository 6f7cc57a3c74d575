package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	validation := &ValidationError{Field: "title", Reason: "must not be empty"}
	transport := &TransportError{Op: "list products", Err: errors.New("connection reset")}
	storage := &StorageError{Op: "upsert product", Err: errors.New("server selection timeout")}

	if !IsValidation(validation) || IsValidation(transport) || IsValidation(storage) {
		t.Fatalf("validation classification is wrong")
	}
	if !IsTransport(transport) || IsTransport(validation) {
		t.Fatalf("transport classification is wrong")
	}
	if !IsStorage(storage) || IsStorage(transport) {
		t.Fatalf("storage classification is wrong")
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("dispatch failed: %w", &ValidationError{Field: "id", Reason: "missing product id"})
	if !IsValidation(err) {
		t.Fatalf("wrapped ValidationError not recognized")
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransportError{Op: "list products", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap to expose the cause")
	}
}
