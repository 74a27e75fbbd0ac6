package lyrics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches timestamps like [01:23.45] or [01:23.456]
var timestampRe = regexp.MustCompile(`\[(\d{2}):(\d{2})\.(\d{2,3})\]`)

// ParseLRC parses line-tagged LRC text into a lyric sequence.
//
// Only the first timestamp on a line is used and only that tag is removed
// from the text. Lines without a timestamp, and lines whose remaining text is
// empty, are skipped. The fraction is always read as hundredths of a second,
// so "[00:01.500]" lands at 6s rather than 1.5s.
func ParseLRC(lrc string) *Lyrics {
	lyrics := &Lyrics{}
	if lrc == "" {
		return lyrics
	}

	for line := range strings.SplitSeq(lrc, "\n") {
		loc := timestampRe.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		ts, ok := parseTimestamp(line, loc)
		if !ok {
			continue
		}

		text := strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
		if text == "" {
			continue
		}

		lyrics.Lines = append(lyrics.Lines, Line{Time: ts, Text: text})
	}

	return lyrics
}

// parseTimestamp converts the submatches located by timestampRe.
func parseTimestamp(line string, loc []int) (time.Duration, bool) {
	minutes, err := strconv.Atoi(line[loc[2]:loc[3]])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(line[loc[4]:loc[5]])
	if err != nil {
		return 0, false
	}
	fraction, err := strconv.Atoi(line[loc[6]:loc[7]])
	if err != nil {
		return 0, false
	}

	// fraction/100 seconds, whatever its width
	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(fraction)*10*time.Millisecond, true
}
