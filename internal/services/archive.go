package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/nwaples/rardecode/v2"

	"github.com/Belphemur/SuperCaptions/internal/apperrors"
	"github.com/Belphemur/SuperCaptions/internal/config"
)

type archiveKind int

const (
	archiveNone archiveKind = iota
	archiveZip
	archiveRar
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zipMagic  = []byte("PK\x03\x04")
	rarMagic  = []byte("Rar!\x1a\x07")
)

// captionExtensions lists the file types picked from archives
var captionExtensions = map[string]struct{}{
	".srt":  {},
	".vtt":  {},
	".ass":  {},
	".ssa":  {},
	".sub":  {},
	".ttml": {},
	".dfxp": {},
}

type archiveEntry struct {
	name    string
	content []byte
}

func isGzip(content []byte) bool {
	return bytes.HasPrefix(content, gzipMagic)
}

func archiveKindOf(content []byte) archiveKind {
	switch {
	case bytes.HasPrefix(content, zipMagic):
		return archiveZip
	case bytes.HasPrefix(content, rarMagic):
		return archiveRar
	default:
		return archiveNone
	}
}

func gunzip(content []byte, maxSize int64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readLimited(zr, maxSize)
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxSize {
		return nil, fmt.Errorf("decompressed caption exceeds maximum size of %d bytes", maxSize)
	}
	return content, nil
}

// entryMatcher selects caption files inside an archive. With a positive episode only
// files named after that episode match (S03E01, 3x01, E01, but not E010).
type entryMatcher struct {
	episode        int
	episodePattern *regexp.Regexp
}

func newEntryMatcher(episode int) *entryMatcher {
	m := &entryMatcher{episode: episode}
	if episode > 0 {
		m.episodePattern = regexp.MustCompile(fmt.Sprintf(`(?i)(?:s\d+e%02d(?:\D|$)|e%02d(?:\D|$)|\d+x%02d(?:\D|$))`, episode, episode, episode))
	}
	return m
}

func (m *entryMatcher) matches(name string) bool {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if _, ok := captionExtensions[strings.ToLower(path.Ext(base))]; !ok {
		return false
	}
	return m.episodePattern == nil || m.episodePattern.MatchString(base)
}

func (m *entryMatcher) notFound(fileCount int) error {
	return &apperrors.ErrCaptionNotFoundInArchive{Episode: m.episode, FileCount: fileCount}
}

func extractFromArchive(kind archiveKind, content []byte, episode int, maxSize int64) (*archiveEntry, error) {
	matcher := newEntryMatcher(episode)
	switch kind {
	case archiveZip:
		return extractFromZip(content, matcher, maxSize)
	case archiveRar:
		return extractFromRar(content, matcher, maxSize)
	default:
		return nil, fmt.Errorf("unsupported archive")
	}
}

func extractFromZip(content []byte, matcher *entryMatcher, maxSize int64) (*archiveEntry, error) {
	logger := config.GetLogger()

	zipReader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP archive: %w", err)
	}

	for _, file := range zipReader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		matches := matcher.matches(file.Name)
		logger.Debug().Str("filename", file.Name).Bool("matches", matches).Msg("Checking file in ZIP")
		if !matches {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s in ZIP: %w", file.Name, err)
		}
		data, err := readLimited(rc, maxSize)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s from ZIP: %w", file.Name, err)
		}
		return &archiveEntry{name: path.Base(file.Name), content: data}, nil
	}

	return nil, matcher.notFound(len(zipReader.File))
}

func extractFromRar(content []byte, matcher *entryMatcher, maxSize int64) (*archiveEntry, error) {
	logger := config.GetLogger()

	rarReader, err := rardecode.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open RAR archive: %w", err)
	}

	fileCount := 0
	for {
		header, err := rarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read RAR archive: %w", err)
		}
		if header.IsDir {
			continue
		}
		fileCount++

		name := strings.ReplaceAll(header.Name, "\\", "/")
		matches := matcher.matches(name)
		logger.Debug().Str("filename", name).Bool("matches", matches).Msg("Checking file in RAR")
		if !matches {
			continue
		}

		data, err := readLimited(rarReader, maxSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s from RAR: %w", name, err)
		}
		return &archiveEntry{name: path.Base(name), content: data}, nil
	}

	return nil, matcher.notFound(fileCount)
}
