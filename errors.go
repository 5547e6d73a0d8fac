package main

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotFound     = errors.New("data source not found")
	ErrNoRecords          = errors.New("data source returned no records")
	ErrUnknownSource      = errors.New("unknown data source kind")
	ErrSymbolNameConflict = errors.New("symbol maps to more than one company name")
	ErrExportUnsupported  = errors.New("chart kind cannot be exported as an image")
	ErrUnknownChart       = errors.New("unknown chart")

	errMissingSymbol = errors.New("record has no symbol")
)

// SourceError names the resource a data source failed on.
type SourceError struct {
	Kind     string
	Resource string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source %q: %v", e.Kind, e.Resource, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

type RecordError struct {
	Symbol  string
	Quarter string
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s/%s: %v", e.Symbol, e.Quarter, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
