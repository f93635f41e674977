// Copyright 2025 Siam Juris Systems
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

package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrStoreBusy indicates that a partition lock could not be acquired
	// within the timeout. The operation may be retried.
	ErrStoreBusy = errors.New("store busy")

	// ErrDimensionMismatch indicates that a vector's dimensionality does not
	// match the partition index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrVectorRecordMismatch indicates that a batch supplied a different
	// number of vectors than records.
	ErrVectorRecordMismatch = errors.New("vector and record counts differ")

	// ErrUnknownField indicates a filter or update referenced a record field
	// that does not exist.
	ErrUnknownField = errors.New("unknown record field")

	// ErrTransactionFailed indicates that a transaction failed.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")
)
