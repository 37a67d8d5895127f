package render

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/techpath/pkg/errors"
)

// Format is an output file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json" // layout file
)

// DefaultFormat is written when no format is requested.
const DefaultFormat = FormatPNG

var validFormats = []Format{FormatPNG, FormatSVG, FormatPDF, FormatDOT, FormatJSON}

// ParseFormats parses a comma-separated format list, dropping duplicates.
// The empty string selects DefaultFormat.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return []Format{DefaultFormat}, nil
	}
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if !slices.Contains(validFormats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (want png, svg, pdf, dot or json)", part)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []Format{DefaultFormat}, nil
	}
	return out, nil
}

// FileName returns the output file name for a player's tech path.
func FileName(playerID int, format Format) string {
	return fmt.Sprintf("tech_path_player_%d_left_to_right.%s", playerID, format)
}

// WriteFile writes data to path atomically. The data goes to a temporary file
// in the destination directory which is then renamed over path, replacing
// any existing file. On failure the temporary file is removed and path is
// left untouched.
func WriteFile(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeWrite, err, "replace %s", path)
	}
	return nil
}
