// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
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

package common

import "fmt"

// ErrorKind enumerates the error surface the engine exposes to callers.
// Numerical non-convergence and degenerate data are never represented here;
// those are well-defined zero results returned by the component itself.
type ErrorKind string

const (
	ErrValidation       ErrorKind = "VALIDATION"
	ErrNotFound         ErrorKind = "NOT_FOUND"
	ErrNoActiveStrategy ErrorKind = "NO_ACTIVE_STRATEGY"
)

// EngineError is the error type returned by the allocation planner and the
// persistence collaborator contract. Kind drives the HTTP status an adapter
// maps it to; Msg is safe to return to the caller verbatim.
type EngineError struct {
	Kind ErrorKind
	Msg  string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func NewValidationError(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *EngineError {
	return &EngineError{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func NewNoActiveStrategyError() *EngineError {
	return &EngineError{Kind: ErrNoActiveStrategy, Msg: "user has no active strategy"}
}

// IsKind reports whether err is an *EngineError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ee, ok := err.(*EngineError)
	return ok && ee.Kind == kind
}
