package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mkruger/drone-crop-survey/internal/storage"
)

const rule = "--------------------------------------------------------------------------------"

// flightStats accumulates per-flight ranges for the summary file.
type flightStats struct {
	count      int
	minLat     float64
	maxLat     float64
	minLon     float64
	maxLon     float64
	minAlt     float64
	maxAlt     float64
	sumAlt     float64
	altCount   int
	firstStamp string
	lastStamp  string
}

// WriteSummary writes a plain-text statistics summary over all stored
// frames: counts per flight, coordinate and altitude ranges per flight,
// and global extents.
func WriteSummary(w io.Writer, records []*storage.FrameRecord) error {
	perFlight := make(map[string]*flightStats)
	for _, rec := range records {
		st, ok := perFlight[rec.Flight]
		if !ok {
			st = &flightStats{
				minLat: rec.Latitude, maxLat: rec.Latitude,
				minLon: rec.Longitude, maxLon: rec.Longitude,
			}
			perFlight[rec.Flight] = st
		}

		st.count++
		st.minLat = min(st.minLat, rec.Latitude)
		st.maxLat = max(st.maxLat, rec.Latitude)
		st.minLon = min(st.minLon, rec.Longitude)
		st.maxLon = max(st.maxLon, rec.Longitude)

		if rec.RelativeAltitude != nil {
			alt := *rec.RelativeAltitude
			if st.altCount == 0 {
				st.minAlt, st.maxAlt = alt, alt
			} else {
				st.minAlt = min(st.minAlt, alt)
				st.maxAlt = max(st.maxAlt, alt)
			}
			st.sumAlt += alt
			st.altCount++
		}

		if !rec.Timestamp.IsZero() {
			stamp := rec.Timestamp.Format(timestampLayout)
			if st.firstStamp == "" || stamp < st.firstStamp {
				st.firstStamp = stamp
			}
			if stamp > st.lastStamp {
				st.lastStamp = stamp
			}
		}
	}

	names := make([]string, 0, len(perFlight))
	for name := range perFlight {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Consolidated Statistics of Extracted Metadata\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&sb, "Total frames: %s\n", humanize.Comma(int64(len(records))))
	fmt.Fprintf(&sb, "Total flights: %d\n\n", len(names))

	sb.WriteString("Frames per flight:\n")
	sb.WriteString(rule + "\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "%s: %s frames\n", name, humanize.Comma(int64(perFlight[name].count)))
	}

	sb.WriteString("\nDetailed statistics per flight:\n")
	sb.WriteString(rule + "\n")
	for _, name := range names {
		st := perFlight[name]
		fmt.Fprintf(&sb, "\n%s:\n", name)
		fmt.Fprintf(&sb, "  Frames: %d\n", st.count)
		fmt.Fprintf(&sb, "  Latitude: %.6f to %.6f\n", st.minLat, st.maxLat)
		fmt.Fprintf(&sb, "  Longitude: %.6f to %.6f\n", st.minLon, st.maxLon)
		if st.altCount > 0 {
			fmt.Fprintf(&sb, "  Relative altitude: %.2f to %.2f m (avg: %.2f m)\n",
				st.minAlt, st.maxAlt, st.sumAlt/float64(st.altCount))
		}
		if st.firstStamp != "" {
			fmt.Fprintf(&sb, "  First timestamp: %s\n", st.firstStamp)
			fmt.Fprintf(&sb, "  Last timestamp: %s\n", st.lastStamp)
		}
	}

	sb.WriteString("\nGlobal extents:\n")
	sb.WriteString(rule + "\n")
	globalWritten := false
	var gMinLat, gMaxLat, gMinLon, gMaxLon float64
	for _, name := range names {
		st := perFlight[name]
		if !globalWritten {
			gMinLat, gMaxLat = st.minLat, st.maxLat
			gMinLon, gMaxLon = st.minLon, st.maxLon
			globalWritten = true
			continue
		}
		gMinLat = min(gMinLat, st.minLat)
		gMaxLat = max(gMaxLat, st.maxLat)
		gMinLon = min(gMinLon, st.minLon)
		gMaxLon = max(gMaxLon, st.maxLon)
	}
	if globalWritten {
		fmt.Fprintf(&sb, "Latitude: %.6f to %.6f\n", gMinLat, gMaxLat)
		fmt.Fprintf(&sb, "Longitude: %.6f to %.6f\n", gMinLon, gMaxLon)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
