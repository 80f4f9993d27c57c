package genotype

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxParseErrors bounds the number of retained per-line error messages.
// Lines beyond the cap are still skipped; only the messages are dropped.
const MaxParseErrors = 100

// Parse reads and parses an export file. Files ending in .zip are treated
// as archives and searched for the genome data member; anything else is
// read as UTF-8 text.
func Parse(path string) (*ParsedFile, error) {
	sourceName := filepath.Base(path)

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		content, err := extractFromZip(path)
		if err != nil {
			return nil, err
		}
		return ParseText(content, sourceName), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}
	return ParseText(string(data), sourceName), nil
}

// ParseText parses export file content. Lines starting with '#' and blank
// lines are skipped silently. Data lines are tab-delimited if any tab is
// present, comma-delimited otherwise, with four positional fields:
// identifier, chromosome, position, genotype. A malformed line is recorded
// as a parse error and skipped; it never aborts the run.
func ParseText(content, sourceName string) *ParsedFile {
	parsed := &ParsedFile{SourceName: sourceName}
	lineNum := 0

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lineNum++

		var fields []string
		if strings.Contains(line, "\t") {
			fields = strings.Split(line, "\t")
		} else {
			fields = strings.Split(line, ",")
		}

		if len(fields) < 4 {
			parsed.addError(lineNum, fmt.Sprintf("Invalid format - expected 4 columns, got %d", len(fields)))
			continue
		}

		rsid := strings.TrimSpace(fields[0])
		chrom := strings.TrimSpace(fields[1])
		posStr := strings.TrimSpace(fields[2])
		gt := strings.TrimSpace(fields[3])

		if rsid == "" {
			parsed.addError(lineNum, "Missing identifier")
			continue
		}

		pos, err := strconv.ParseInt(posStr, 10, 64)
		if err != nil || pos <= 0 {
			parsed.addError(lineNum, fmt.Sprintf("Invalid position %q", posStr))
			continue
		}

		// No-calls are dropped silently: not an error, not counted.
		if gt == "" || gt == NoCall {
			continue
		}

		if chrom == "" {
			chrom = "unknown"
		}

		rec := Record{RsID: rsid, Chromosome: chrom, Position: pos, Genotype: gt}
		parsed.Records = append(parsed.Records, rec)
		if rec.Matchable() {
			parsed.RsIDCount++
		}
	}

	parsed.TotalVariants = len(parsed.Records)
	return parsed
}

func (p *ParsedFile) addError(line int, msg string) {
	if len(p.Errors) < MaxParseErrors {
		p.Errors = append(p.Errors, ParseError{Line: line, Message: msg})
	}
}

// LooksLikeExport inspects the first 100 lines of content and reports
// whether it resembles a consumer genotyping export. Used to warn before
// committing to a long parse; the check is heuristic and advisory only.
func LooksLikeExport(content string) (bool, string) {
	lines := strings.Split(content, "\n")
	if len(lines) > 100 {
		lines = lines[:100]
	}

	var dataLines []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			dataLines = append(dataLines, trimmed)
		}
	}

	if len(dataLines) == 0 {
		return false, "no data lines found"
	}

	sample := dataLines
	if len(sample) > 10 {
		sample = sample[:10]
	}
	valid := 0
	for _, line := range sample {
		var fields []string
		if strings.Contains(line, "\t") {
			fields = strings.Split(line, "\t")
		} else {
			fields = strings.Split(line, ",")
		}
		if len(fields) >= 4 && strings.HasPrefix(strings.TrimSpace(fields[0]), MatchableIDPrefix) {
			valid++
		}
	}

	if float64(valid)/float64(len(sample)) < 0.5 {
		return false, "file does not appear to contain genotyping export data"
	}
	return true, ""
}
