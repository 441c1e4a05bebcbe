// Package srt extracts per-frame telemetry from DJI subtitle (.SRT) files.
//
// DJI flight video subtitles carry one block per frame, separated by blank
// lines. Each block contains a FrameCnt counter, a millisecond timestamp and
// a line of [key: value] pairs with GPS coordinates, altitudes and camera
// exposure settings. The grammar is not documented by the vendor; this parser
// matches the output observed from a Mini 4 Pro and skips anything it does
// not recognize.
package srt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mkruger/drone-crop-survey/internal/telemetry"
)

// timestampLayout matches DJI frame timestamps, e.g. "2024-06-14 10:31:02.148".
const timestampLayout = "2006-01-02 15:04:05.000"

var (
	frameCntRe  = regexp.MustCompile(`FrameCnt:\s*(\d+)`)
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3}`)

	fieldRes = map[string]*regexp.Regexp{
		"iso":       regexp.MustCompile(`\[iso:\s*(\d+)\]`),
		"shutter":   regexp.MustCompile(`\[shutter:\s*([^\]]+)\]`),
		"fnum":      regexp.MustCompile(`\[fnum:\s*([\d.]+)\]`),
		"ev":        regexp.MustCompile(`\[ev:\s*([-\d.]+)\]`),
		"color_md":  regexp.MustCompile(`\[color_md:\s*([^\]]+)\]`),
		"focal_len": regexp.MustCompile(`\[focal_len:\s*([\d.]+)\]`),
		"latitude":  regexp.MustCompile(`\[latitude:\s*(-?[\d.]+)\]`),
		"longitude": regexp.MustCompile(`\[longitude:\s*(-?[\d.]+)\]`),
		"rel_alt":   regexp.MustCompile(`\[rel_alt:\s*(-?[\d.]+)`),
		"abs_alt":   regexp.MustCompile(`abs_alt:\s*(-?[\d.]+)\]`),
		"ct":        regexp.MustCompile(`\[ct:\s*(\d+)\]`),
	}
)

// ParseFile parses a DJI SRT file and returns the extracted frames,
// sorted by frame index.
func ParseFile(path string) ([]telemetry.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening SRT file: %w", err)
	}
	defer f.Close()

	frames, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return frames, nil
}

// Parse reads SRT content from r and returns the extracted frames, sorted
// by frame index. Blocks without a frame counter or GPS coordinates are
// skipped; a file with no usable block at all yields an empty slice, not
// an error.
func Parse(r io.Reader) ([]telemetry.Frame, error) {
	var frames []telemetry.Frame
	var block []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	flush := func() {
		if len(block) == 0 {
			return
		}
		if frame, ok := parseBlock(block); ok {
			frames = append(frames, frame)
		}
		block = block[:0]
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading SRT content: %w", err)
	}
	flush()

	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].FrameIndex < frames[j].FrameIndex
	})
	return frames, nil
}

// parseBlock extracts one frame from an SRT block. A block is usable only
// when it carries a frame counter and both GPS coordinates.
func parseBlock(lines []string) (telemetry.Frame, bool) {
	var frame telemetry.Frame
	var haveIndex bool

	for _, line := range lines {
		if m := frameCntRe.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return frame, false
			}
			frame.FrameIndex = n
			haveIndex = true
			break
		}
	}
	if !haveIndex {
		return frame, false
	}

	for _, line := range lines {
		if m := timestampRe.FindString(line); m != "" {
			if ts, err := time.Parse(timestampLayout, m); err == nil {
				frame.Timestamp = ts
			}
			break
		}
	}

	metadataLine := ""
	for _, line := range lines {
		if strings.Contains(line, "[") && strings.Contains(line, ":") && strings.Contains(line, "]") {
			metadataLine = line
			break
		}
	}
	if metadataLine == "" {
		return frame, false
	}

	lat, okLat := floatField(metadataLine, "latitude")
	lon, okLon := floatField(metadataLine, "longitude")
	if !okLat || !okLon {
		return frame, false
	}
	frame.Latitude = lat
	frame.Longitude = lon

	if v, ok := floatField(metadataLine, "rel_alt"); ok {
		frame.RelativeAltitude = &v
	}
	if v, ok := floatField(metadataLine, "abs_alt"); ok {
		frame.AbsoluteAltitude = &v
	}
	if v, ok := intField(metadataLine, "iso"); ok {
		frame.ISO = &v
	}
	if v, ok := stringField(metadataLine, "shutter"); ok {
		frame.Shutter = &v
	}
	if v, ok := floatField(metadataLine, "fnum"); ok {
		frame.Aperture = &v
	}
	if v, ok := floatField(metadataLine, "ev"); ok {
		frame.EV = &v
	}
	if v, ok := stringField(metadataLine, "color_md"); ok {
		frame.ColorMode = &v
	}
	if v, ok := floatField(metadataLine, "focal_len"); ok {
		frame.FocalLength = &v
	}
	if v, ok := intField(metadataLine, "ct"); ok {
		frame.ColorTemperature = &v
	}

	return frame, true
}

func stringField(line, key string) (string, bool) {
	m := fieldRes[key].FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func floatField(line, key string) (float64, bool) {
	s, ok := stringField(line, key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intField(line, key string) (int64, bool) {
	s, ok := stringField(line, key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
