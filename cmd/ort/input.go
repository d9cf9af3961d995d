package main

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// input is an opened input stream with its underlying closers.
type input struct {
	io.Reader
	closers []func() error
}

func (in *input) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openInput opens path, or stdin for "" and "-", and transparently
// decompresses gzip or zstd content detected from its leading bytes.
func (e *env) openInput(path string) (*input, error) {
	in := &input{}
	var src io.Reader = e.stdin

	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		in.closers = append(in.closers, f.Close)
		src = f
	}

	br := bufio.NewReader(src)
	head, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			in.Close()
			return nil, errors.Wrap(err, "open gzip input")
		}
		in.closers = append(in.closers, zr.Close)
		in.Reader = zr
		e.logger.Debug("input", "path", path, "compression", "gzip")

	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			in.Close()
			return nil, errors.Wrap(err, "open zstd input")
		}
		in.closers = append(in.closers, func() error { zr.Close(); return nil })
		in.Reader = zr
		e.logger.Debug("input", "path", path, "compression", "zstd")

	default:
		in.Reader = br
	}

	return in, nil
}

// readInput reads the whole input.
func (e *env) readInput(path string) ([]byte, error) {
	in, err := e.openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return data, nil
}
