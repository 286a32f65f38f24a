package domain

import "errors"

// ErrNotFound is returned by repo functions when the requested resource does
// not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when an export request fails structural
// validation (no datasets, malformed columns map) before any fetch happens.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnknownDataset is returned by the transformer when the dataset id is not
// present in the registry. The orchestrator treats this as a soft condition
// and skips the dataset; it is never fatal to the overall export.
var ErrUnknownDataset = errors.New("unknown dataset")

// ErrDataSource wraps any failure of the underlying relational store.
// It is fatal: the orchestrator aborts the whole export and surfaces it
// with the underlying message attached.
var ErrDataSource = errors.New("data source error")

// ErrEmptyResult is returned when every requested dataset was skipped or
// yielded zero rows. It means "nothing to export", not an internal failure.
var ErrEmptyResult = errors.New("nothing to export")
