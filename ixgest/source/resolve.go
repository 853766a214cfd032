// Package source turns a command line input (path, URL or "-") into an
// open association stream.
//
// Local paths are opened directly and .gz files decompressed on the fly.
// Remote inputs are detected and fetched with go-getter into a temporary
// directory that is removed on Close. FTP is not supported.
package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-getter"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/logger"
)

// StdinInput is the input name that reads standard input
const StdinInput = "-"

// Options tune resolution. The zero value is usable.
type Options struct {
	// TempDir is where remote files are downloaded ("" = os.TempDir())
	TempDir string
	// Timeout bounds a remote fetch (0 = no limit beyond ctx)
	Timeout time.Duration
	// Stdin replaces os.Stdin for the "-" input
	Stdin io.Reader
}

// Source is a resolved, open input. It is an io.ReadCloser and can be
// handed straight to a parser, which closes it.
type Source struct {
	// Input is what the caller asked for
	Input string
	// Detected is the go-getter form of Input ("" for stdin)
	Detected string
	// Path is the local file actually read ("" for stdin)
	Path string
	// Remote is true when the file was downloaded
	Remote bool

	reader  io.Reader
	closers []io.Closer
	tempDir string
	logger  *zap.SugaredLogger

	closeOnce sync.Once
	closeErr  error
}

// Read implements io.Reader
func (s *Source) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

// Close releases the stream and removes downloaded files. Safe to call
// more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		for i := len(s.closers) - 1; i >= 0; i-- {
			if err := s.closers[i].Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
		if s.tempDir != "" {
			s.logger.Debugw("Removing downloaded source", logger.FieldPath, s.tempDir)
			if err := os.RemoveAll(s.tempDir); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}

// Resolve opens input. Every failure is marked ErrSourceUnavailable.
func Resolve(ctx context.Context, input string, opts Options, log *zap.SugaredLogger) (*Source, error) {
	log = logger.OrNop(log)

	if input == StdinInput {
		stdin := opts.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return &Source{Input: input, reader: stdin, logger: log}, nil
	}

	if strings.HasPrefix(strings.ToLower(input), "ftp://") {
		err := errors.WithHint(errors.Wrapf(errors.ErrUnsupportedScheme, "ftp"),
			"download the file first and pass the local path")
		return nil, errors.WrapSourceUnavailable(err, input)
	}

	// existing files skip detection; # and % are not URL syntax in a path
	if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
		src, err := openLocal(input, log)
		if err != nil {
			return nil, errors.WrapSourceUnavailable(err, input)
		}
		src.Input = input
		return src, nil
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.WrapSourceUnavailable(errors.Wrap(err, "detect source type"), input)
	}
	log.Debugw("go-getter detected source", logger.FieldSource, input, logger.FieldDetected, detected)

	u, err := url.Parse(detected)
	if err != nil {
		return nil, errors.WrapSourceUnavailable(errors.Wrap(err, "parse detected URL"), input)
	}

	if u.Scheme == "file" || u.Scheme == "" {
		localPath := input
		if u.Scheme == "file" {
			localPath = u.Path
		}
		src, err := openLocal(localPath, log)
		if err != nil {
			return nil, errors.WrapSourceUnavailable(err, input)
		}
		src.Input = input
		src.Detected = detected
		return src, nil
	}

	src, err := fetch(ctx, input, detected, opts, log)
	if err != nil {
		return nil, errors.WrapSourceUnavailable(err, input)
	}
	return src, nil
}

// openLocal opens a file, decompressing .gz
func openLocal(localPath string, log *zap.SugaredLogger) (*Source, error) {
	if strings.HasPrefix(localPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "expand home directory")
		}
		localPath = filepath.Join(home, localPath[2:])
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	src := &Source{Path: localPath, reader: f, closers: []io.Closer{f}, logger: log}

	if strings.HasSuffix(strings.ToLower(localPath), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "gzip %s", localPath)
		}
		src.reader = zr
		src.closers = append(src.closers, zr)
	}

	log.Debugw("Opened local source", logger.FieldPath, localPath)
	return src, nil
}

// fetch downloads a remote file. go-getter decompresses known archive
// suffixes such as .gz while fetching.
func fetch(ctx context.Context, input, detected string, opts Options, log *zap.SugaredLogger) (*Source, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	tempDir, err := os.MkdirTemp(opts.TempDir, "assocparse-fetch-*")
	if err != nil {
		return nil, errors.Wrap(err, "create temp directory")
	}
	dst := filepath.Join(tempDir, downloadName(detected))

	log.Infow("Fetching source",
		logger.FieldSource, input,
		logger.FieldDetected, detected,
		logger.FieldPath, dst,
	)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Pwd:     tempDir,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrap(err, "fetch")
	}

	f, err := os.Open(dst)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}
	log.Infow("Fetch completed", logger.FieldSource, input, logger.FieldPath, dst)

	return &Source{
		Input:    input,
		Detected: detected,
		Path:     dst,
		Remote:   true,
		reader:   f,
		closers:  []io.Closer{f},
		tempDir:  tempDir,
		logger:   log,
	}, nil
}

// downloadName picks a file name for a fetched URL, without the
// compression suffix go-getter strips
func downloadName(detected string) string {
	name := "download"
	if u, err := url.Parse(detected); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." && base != "" {
			name = base
		}
	}
	for _, ext := range []string{".gz", ".bz2", ".xz", ".zst"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
