package captions

import (
	"bufio"
	"strconv"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

// defaultFrameRate is used when a MicroDVD file does not declare its own.
const defaultFrameRate = 23.976

// defaultMicroDVDDuration applies to cues with an empty end frame.
const defaultMicroDVDDuration = 3 * time.Second

// readMicroDVD parses frame-based MicroDVD text ({start}{end}line|line).
// A leading {1}{1}<fps> entry overrides the default frame rate.
func readMicroDVD(text string) (*astisub.Subtitles, error) {
	subs := astisub.NewSubtitles()
	fps := defaultFrameRate

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		start, end, body, ok := splitMicroDVDLine(line)
		if !ok {
			continue
		}

		if first {
			first = false
			if start <= 1 && end <= 1 {
				if declared, err := strconv.ParseFloat(strings.TrimSpace(body), 64); err == nil && declared > 0 {
					fps = declared
					continue
				}
			}
		}

		item := &astisub.Item{StartAt: frameToDuration(start, fps)}
		if end >= 0 {
			item.EndAt = frameToDuration(end, fps)
		} else {
			item.EndAt = item.StartAt + defaultMicroDVDDuration
		}
		for _, part := range strings.Split(body, "|") {
			part = stripMicroDVDStyle(part)
			if part == "" {
				continue
			}
			item.Lines = append(item.Lines, astisub.Line{Items: []astisub.LineItem{{Text: part}}})
		}
		if len(item.Lines) == 0 {
			continue
		}
		subs.Items = append(subs.Items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

// splitMicroDVDLine returns the start frame, end frame (-1 when empty) and text of a line.
func splitMicroDVDLine(line string) (int, int, string, bool) {
	if !strings.HasPrefix(line, "{") {
		return 0, 0, "", false
	}
	closeStart := strings.Index(line, "}")
	if closeStart < 0 || len(line) <= closeStart+1 || line[closeStart+1] != '{' {
		return 0, 0, "", false
	}
	rest := line[closeStart+2:]
	closeEnd := strings.Index(rest, "}")
	if closeEnd < 0 {
		return 0, 0, "", false
	}

	start, err := strconv.Atoi(line[1:closeStart])
	if err != nil {
		return 0, 0, "", false
	}
	end := -1
	if endStr := rest[:closeEnd]; endStr != "" {
		if end, err = strconv.Atoi(endStr); err != nil {
			return 0, 0, "", false
		}
	}
	return start, end, rest[closeEnd+1:], true
}

// stripMicroDVDStyle drops control codes like {y:i} or {c:$0000ff}.
func stripMicroDVDStyle(s string) string {
	for strings.HasPrefix(s, "{") {
		end := strings.Index(s, "}")
		if end < 0 {
			break
		}
		s = s[end+1:]
	}
	return strings.TrimSpace(strings.TrimLeft(s, "/"))
}

func frameToDuration(frame int, fps float64) time.Duration {
	return time.Duration(float64(frame) / fps * float64(time.Second))
}
