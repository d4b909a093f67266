// Copyright 2024 The gVisor Authors.
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

package compactlist

import (
	"errors"
	"fmt"
)

// Errors returned by List operations. Returned errors wrap one of these with
// additional context, so they must be matched with errors.Is.
var (
	// ErrInvalidArgument is wrapped by every error caused by a bad argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNegativeCapacity is returned when a negative size or capacity is
	// requested.
	ErrNegativeCapacity = fmt.Errorf("%w: negative capacity", ErrInvalidArgument)

	// ErrOutOfRange is returned for a position outside [0, Len()).
	ErrOutOfRange = fmt.Errorf("%w: position out of range", ErrInvalidArgument)

	// ErrInvalidNode is returned for a node handle that is not a live member
	// of the list it was passed to.
	ErrInvalidNode = fmt.Errorf("%w: node is not a live member of this list", ErrInvalidArgument)

	// ErrConcurrentModification is returned by an iterator whose list was
	// structurally modified after the iterator was created.
	ErrConcurrentModification = errors.New("list modified during iteration")

	// ErrCapacityExhausted is the panic value (wrapped) when a list would
	// need more than MaxLen nodes.
	ErrCapacityExhausted = errors.New("list capacity exhausted")
)
