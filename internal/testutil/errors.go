// Package testutil provides testing utilities for syncgit.
//
// This package contains mock errors and git repository fixtures shared by
// test files. It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockCommand indicates a mock command failed to start.
	ErrMockCommand = errors.New("mock command failed")

	// ErrMockPrompt indicates a mock prompt could not read input.
	ErrMockPrompt = errors.New("mock prompt read failed")

	// ErrMockNetwork indicates a mock network error occurred.
	ErrMockNetwork = errors.New("network error")

	// ErrMockAPIError indicates a mock hosting API error occurred.
	ErrMockAPIError = errors.New("API error")
)
