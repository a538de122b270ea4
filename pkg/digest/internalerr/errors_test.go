package internalerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestStorageErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("process: %w", &StorageError{Op: "save", URL: "https://example.com/a.pdf", Err: io.ErrClosedPipe})

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatal("expected StorageError in chain")
	}
	if se.URL != "https://example.com/a.pdf" {
		t.Errorf("URL = %q", se.URL)
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected wrapped cause to be reachable")
	}
}

func TestIsInsufficientData(t *testing.T) {
	if !IsInsufficientData(fmt.Errorf("wrap: %w", &InsufficientDataError{Op: "keywords"})) {
		t.Error("wrapped InsufficientDataError not detected")
	}
	if IsInsufficientData(errors.New("other")) {
		t.Error("plain error misdetected")
	}
}
