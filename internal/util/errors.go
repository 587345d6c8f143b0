package util

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrSubsectionNotFound = errors.New("subsection not found")
)
