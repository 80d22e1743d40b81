package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"werewolf-arena/internal/config"
)

var (
	writerMu  sync.RWMutex
	outWriter io.Writer = os.Stdout
)

// Writer returns the sink Init installed; request-log middleware shares it
// so HTTP access logs land next to application logs.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return outWriter
}

// Init installs the global logger from config. When cfg.File is set, log
// output is duplicated to a size-capped file next to stdout. The returned
// closer releases the file; it is a no-op without one.
func Init(cfg config.LogConfig) (io.Closer, error) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		fw, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			return nil, err
		}
		output = io.MultiWriter(output, fw)
		closer = fw
	}

	writerMu.Lock()
	outWriter = output
	writerMu.Unlock()

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
