package ssg

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySource = errors.New("markdown source cannot be empty")
	ErrNoArticles  = errors.New("no markdown articles found")
	ErrRender      = errors.New("render failed")
	ErrWriteOutput = errors.New("cannot write output")
)
