package screen

import (
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// LogWriter appends raw PTY bytes to a zstd-compressed advisory log
// file. It is advisory: a session never blocks on it, and a write
// failure here never surfaces to the driver's control flow — it only
// loses the transcript, not the session.
type LogWriter struct {
	file *os.File
	enc  *zstd.Encoder
}

// NewLogWriter opens path (creating/truncating it) and wraps it in a
// zstd encoder. Pass compress=false to write plain bytes instead, e.g.
// for a log meant to be tailed live.
func NewLogWriter(path string, compress bool) (*LogWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if !compress {
		return &LogWriter{file: f}, nil
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &LogWriter{file: f, enc: enc}, nil
}

func (w *LogWriter) Write(p []byte) (int, error) {
	var dst io.Writer = w.file
	if w.enc != nil {
		dst = w.enc
	}
	return dst.Write(p)
}

func (w *LogWriter) Close() error {
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			w.file.Close()
			return err
		}
	}
	return w.file.Close()
}
