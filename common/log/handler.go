package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"
)

var Hub ClosingHandler

type ClosingHandler struct {
	io.WriteCloser
	log15.Handler
}

func (h *ClosingHandler) Close() error {
	return h.WriteCloser.Close()
}

// FileHandler returns a handler which appends records to the given file,
// creating the parent directory if needed.
func FileHandler(path string, fmtr log15.Format) log15.Handler {
	h, err := fileHandler(path, fmtr)
	if err != nil {
		panic(err)
	}
	return h
}

func fileHandler(path string, fmtr log15.Format) (log15.Handler, error) {
	if Hub.WriteCloser != nil {
		Hub.Close()
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	Hub = ClosingHandler{f, log15.StreamHandler(f, fmtr)}
	return Hub, nil
}
