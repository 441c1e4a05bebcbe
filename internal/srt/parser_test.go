package srt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// sampleSRT mimics the subtitle output of a DJI Mini 4 Pro. The second and
// first blocks arrive out of order to exercise sorting.
const sampleSRT = `2
00:00:00,033 --> 00:00:00,066
<font size="28">FrameCnt: 2, DiffTime: 33ms
2024-06-14 10:31:02.181
[iso: 110] [shutter: 1/1600.0] [fnum: 1.7] [ev: 0] [color_md: default] [focal_len: 24.00] [latitude: -33.860105] [longitude: 151.209901] [rel_alt: 2.100 abs_alt: 595.348] [ct: 5231]</font>

1
00:00:00,000 --> 00:00:00,033
<font size="28">FrameCnt: 1, DiffTime: 33ms
2024-06-14 10:31:02.148
[iso: 100] [shutter: 1/2000.0] [fnum: 1.7] [ev: -0.3] [color_md: default] [focal_len: 24.00] [latitude: -33.860112] [longitude: 151.209883] [rel_alt: 1.300 abs_alt: 594.548] [ct: 5230]</font>

3
00:00:00,066 --> 00:00:00,100
<font size="28">FrameCnt: 3, DiffTime: 34ms
2024-06-14 10:31:02.215
[iso: 110] [shutter: 1/1600.0] [fnum: 1.7] [ev: 0] [color_md: default] [focal_len: 24.00] [latitude: -33.860098] [longitude: 151.209919] [rel_alt: 2.800 abs_alt: 596.048] [ct: 5232]</font>
`

func TestParse(t *testing.T) {
	frames, err := Parse(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(frames))
	}

	// Frames come back sorted by frame index regardless of file order.
	for i, frame := range frames {
		if frame.FrameIndex != i+1 {
			t.Errorf("Frame %d: expected index %d, got %d", i, i+1, frame.FrameIndex)
		}
	}

	first := frames[0]
	if first.Latitude != -33.860112 || first.Longitude != 151.209883 {
		t.Errorf("Expected position (-33.860112, 151.209883), got (%g, %g)", first.Latitude, first.Longitude)
	}

	wantTS := time.Date(2024, 6, 14, 10, 31, 2, 148_000_000, time.UTC)
	if !first.Timestamp.Equal(wantTS) {
		t.Errorf("Expected timestamp %v, got %v", wantTS, first.Timestamp)
	}

	if first.ISO == nil || *first.ISO != 100 {
		t.Errorf("Expected ISO 100, got %v", first.ISO)
	}
	if first.Shutter == nil || *first.Shutter != "1/2000.0" {
		t.Errorf("Expected shutter 1/2000.0, got %v", first.Shutter)
	}
	if first.Aperture == nil || *first.Aperture != 1.7 {
		t.Errorf("Expected aperture 1.7, got %v", first.Aperture)
	}
	if first.EV == nil || *first.EV != -0.3 {
		t.Errorf("Expected EV -0.3, got %v", first.EV)
	}
	if first.ColorMode == nil || *first.ColorMode != "default" {
		t.Errorf("Expected color mode default, got %v", first.ColorMode)
	}
	if first.FocalLength == nil || *first.FocalLength != 24.0 {
		t.Errorf("Expected focal length 24, got %v", first.FocalLength)
	}
	if first.RelativeAltitude == nil || *first.RelativeAltitude != 1.3 {
		t.Errorf("Expected relative altitude 1.3, got %v", first.RelativeAltitude)
	}
	if first.AbsoluteAltitude == nil || *first.AbsoluteAltitude != 594.548 {
		t.Errorf("Expected absolute altitude 594.548, got %v", first.AbsoluteAltitude)
	}
	if first.ColorTemperature == nil || *first.ColorTemperature != 5230 {
		t.Errorf("Expected color temperature 5230, got %v", first.ColorTemperature)
	}
}

func TestParse_SkipsUnusableBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty input", "", 0},
		{"no frame counter", "1\n00:00:00,000 --> 00:00:00,033\n[latitude: 1.0] [longitude: 2.0]\n", 0},
		{"no coordinates", "1\nFrameCnt: 1\n[iso: 100] [shutter: 1/50.0]\n", 0},
		{
			"mixed usable and broken",
			"1\nFrameCnt: 1\n[latitude: 1.0] [longitude: 2.0]\n\nnot a block at all\n\n2\nFrameCnt: 2\n[latitude: 1.1] [longitude: 2.1]\n",
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(frames) != tt.want {
				t.Errorf("Expected %d frames, got %d", tt.want, len(frames))
			}
		})
	}
}

func TestParse_CRLFInput(t *testing.T) {
	input := strings.ReplaceAll(sampleSRT, "\n", "\r\n")
	frames, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(frames) != 3 {
		t.Errorf("Expected 3 frames from CRLF input, got %d", len(frames))
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DJI_0001.SRT")
	if err := os.WriteFile(path, []byte(sampleSRT), 0o644); err != nil {
		t.Fatal(err)
	}

	frames, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(frames) != 3 {
		t.Errorf("Expected 3 frames, got %d", len(frames))
	}

	if _, err = ParseFile(filepath.Join(t.TempDir(), "missing.SRT")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
