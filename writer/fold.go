package writer

import "strings"

// writeFoldedTextBlock emits text as a semicolon-delimited text block,
// applying the line-folding and prefix-escape protocols of spec §4.5 as
// needed, and always writes the marker line and closing delimiter itself
// (the caller has already ensured the opening ';' starts a fresh line).
func writeFoldedTextBlock(s *state, text string) error {
	lines := strings.Split(text, "\n")
	needFold := linesNeedFold(lines, s.opts.MaxLineLength)
	needPrefix := linesNeedPrefix(lines)

	marker := ";"
	if needPrefix {
		marker += s.opts.TextPrefix
	}
	if needFold {
		marker += "\\"
	}
	if err := s.writeLine(marker); err != nil {
		return err
	}

	prefix := ""
	if needPrefix {
		prefix = s.opts.TextPrefix
	}
	// Reserve one code point for the trailing '\' that every
	// non-terminal folded segment carries, and the fold window, since the
	// fold point may land up to that far past target.
	target := s.opts.MaxLineLength - runeLen(prefix) - 1 - s.opts.FoldWindow
	for _, line := range lines {
		if err := writeFoldedLine(s, prefix, line, needFold, target, s.opts.FoldWindow); err != nil {
			return err
		}
	}
	return s.writeLine(";")
}

// linesNeedFold reports whether any logical line exceeds maxLen, requiring
// the fold protocol.
func linesNeedFold(lines []string, maxLen int) bool {
	for _, l := range lines {
		if runeLen(l) > maxLen {
			return true
		}
	}
	return false
}

// linesNeedPrefix reports whether the body risks containing the closing
// delimiter's newline-semicolon digraph, or whether its own first line
// could be mistaken for a fold/prefix marker line by the reader,
// requiring the prefix protocol.
func linesNeedPrefix(lines []string) bool {
	if len(lines) > 1 && (lines[0] == "" || strings.HasSuffix(lines[0], "\\")) {
		return true
	}
	for _, l := range lines {
		if strings.HasPrefix(l, ";") {
			return true
		}
	}
	return false
}

func writeFoldedLine(s *state, prefix, line string, foldEnabled bool, target, window int) error {
	runes := []rune(line)
	if target < 1 {
		target = 1
	}
	for {
		if !foldEnabled || len(runes) <= target {
			if err := s.writeRaw(prefix); err != nil {
				return err
			}
			if err := s.writeRaw(string(runes)); err != nil {
				return err
			}
			return s.newline()
		}
		idx := findFoldPoint(runes, target, window)
		segment := runes[:idx]
		if err := s.writeRaw(prefix); err != nil {
			return err
		}
		if err := s.writeRaw(string(segment)); err != nil {
			return err
		}
		if err := s.writeRaw("\\"); err != nil {
			return err
		}
		if err := s.newline(); err != nil {
			return err
		}
		runes = runes[idx:]
	}
}

// findFoldPoint scans a window of ±window code points around target
// looking for a space or tab to split on, preferring the candidate
// closest to target (spec §4.5). The split index includes that
// whitespace code point in the returned (first) segment, so rejoining
// the segments reproduces the original text exactly. If no whitespace is
// found in the window, it falls back to splitting exactly at target.
func findFoldPoint(runes []rune, target, window int) int {
	n := len(runes)
	if target >= n {
		return n
	}
	lo := target - window
	if lo < 0 {
		lo = 0
	}
	hi := target + window
	if hi > n {
		hi = n
	}
	best := -1
	bestDist := window + 1
	for i := lo; i < hi; i++ {
		if runes[i] == ' ' || runes[i] == '\t' {
			d := i - target
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
	}
	if best >= 0 {
		return best + 1
	}
	return target
}
