package io

import (
	"fmt"
	"io"
)

type ReadResetter interface {
	Read() ([]string, error)
	Reset() error
	Seekable() bool
}

// LineCount reads r to the end and rewinds it. A source that cannot be
// rewound is not read at all.
func LineCount(r ReadResetter) (int, error) {
	if !r.Seekable() {
		return 0, ErrNotSeekable
	}

	var count int
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.Reset()
			return count, fmt.Errorf("ошибка подсчета строк: %w", err)
		}
		count++
	}

	if err := r.Reset(); err != nil {
		return count, fmt.Errorf("ошибка перемотки после подсчета строк: %w", err)
	}
	return count, nil
}
