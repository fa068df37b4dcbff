package io

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

var EOF = io.EOF

// TSVReader reads tab-separated records, transparently un-gzipping when the
// source was opened from a .gz file. Rows may have different field counts.
type TSVReader struct {
	reader    *csv.Reader
	src       io.ReadCloser
	gzipped   bool
	linesRead atomic.Int64
}

func NewTSVReader(rc io.ReadCloser) *TSVReader {
	return &TSVReader{
		reader: createCSVReader(rc),
		src:    rc,
	}
}

func OpenTSVFile(filename string) (*TSVReader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(filename, ".gz") {
		return NewTSVReader(file), nil
	}

	gzr, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	r := NewTSVReader(&gzipReadCloser{gzr, file})
	r.gzipped = true
	return r, nil
}

type gzipReadCloser struct {
	gzipReader *gzip.Reader
	file       *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gzipReader.Read(p)
}

func (g *gzipReadCloser) Close() error {
	g.gzipReader.Close()
	return g.file.Close()
}

func createCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}

func (r *TSVReader) Read() ([]string, error) {
	record, err := r.reader.Read()
	if err == nil {
		r.linesRead.Add(1)
	}
	return record, err
}

// LinesRead is safe to call while another goroutine reads.
func (r *TSVReader) LinesRead() int {
	return int(r.linesRead.Load())
}

// ErrNotSeekable is returned by Reset for pipes and other streams.
var ErrNotSeekable = errors.New("источник не поддерживает перемотку")

func (r *TSVReader) seeker() io.Seeker {
	if g, ok := r.src.(*gzipReadCloser); ok && r.gzipped {
		return g.file
	}
	s, _ := r.src.(io.Seeker)
	return s
}

// Seekable reports whether Reset can rewind the source. A file opened on a
// pipe or FIFO is not.
func (r *TSVReader) Seekable() bool {
	s := r.seeker()
	if s == nil {
		return false
	}
	_, err := s.Seek(0, io.SeekCurrent)
	return err == nil
}

// Reset rewinds to the first record.
func (r *TSVReader) Reset() error {
	s := r.seeker()
	if s == nil {
		return ErrNotSeekable
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrNotSeekable, err)
	}
	if g, ok := r.src.(*gzipReadCloser); ok && r.gzipped {
		if err := g.gzipReader.Reset(g.file); err != nil {
			return err
		}
	}

	r.reader = createCSVReader(r.src)
	r.linesRead.Store(0)
	return nil
}

func (r *TSVReader) Close() error {
	return r.src.Close()
}

type TSVWriter struct {
	writer *csv.Writer
	wc     io.WriteCloser
}

func NewTSVWriter(wc io.WriteCloser) *TSVWriter {
	return &TSVWriter{
		writer: createCSVWriter(wc),
		wc:     wc,
	}
}

func CreateTSVFile(filename string) (*TSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	var writer io.WriteCloser = file

	if strings.HasSuffix(filename, ".gz") {
		gzw := gzip.NewWriter(file)
		writer = &gzipWriteCloser{gzw, file}
	}

	return NewTSVWriter(writer), nil
}

type gzipWriteCloser struct {
	gzipWriter *gzip.Writer
	file       *os.File
}

func (g *gzipWriteCloser) Write(p []byte) (int, error) {
	return g.gzipWriter.Write(p)
}

func (g *gzipWriteCloser) Close() error {
	if err := g.gzipWriter.Close(); err != nil {
		g.file.Close()
		return err
	}
	return g.file.Close()
}

func createCSVWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	return writer
}

func (w *TSVWriter) Write(record []string) error {
	return w.writer.Write(record)
}

func (w *TSVWriter) Flush() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("ошибка записи TSV: %w", err)
	}
	return nil
}

// Close flushes and closes the destination. Calling it twice is harmless.
func (w *TSVWriter) Close() error {
	if w.wc == nil {
		return nil
	}
	if err := w.Flush(); err != nil {
		return err
	}
	wc := w.wc
	w.wc = nil
	return wc.Close()
}
