// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors provides shared wrap helpers and the sentinel errors
// used across the gateway's queue and dispatch boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels for expected branches. Callers test with errors.Is; these are
// status signals, not faults.
var (
	// ErrQueueClosed is returned by Enqueue/Dequeue after Close.
	ErrQueueClosed = errors.New("queue closed")
	// ErrHandleCompleted is returned when Complete/Abandon is called twice
	// for the same message handle.
	ErrHandleCompleted = errors.New("message handle already settled")
	// ErrNoHandler is returned by the strategy registry when no handler is
	// registered under the requested key.
	ErrNoHandler = errors.New("no strategy handler registered")
	// ErrPersonaNotFound is returned by configuration providers for an
	// unknown persona id.
	ErrPersonaNotFound = errors.New("persona configuration not found")
)

// New returns a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps err with an additional message.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
