package replay

import (
	"context"
	"os"

	"github.com/matzehuels/techpath/pkg/errors"
)

// Load reads a replay from path.
//
// Dump files (.json, .yaml, .yml) are decoded directly. Any other file is
// treated as a raw replay and handed to the parser command; an empty command
// is an error because techpath cannot decode raw replays itself.
func Load(ctx context.Context, path, parserCommand string) (*Replay, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "replay %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "replay %s", path)
	}

	if _, ok := FormatFromPath(path); ok {
		return ReadFile(path)
	}

	if !IsRawReplay(path) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown replay format (want .SC2Replay, .json, .yaml or .yml)", path)
	}
	if parserCommand == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s is a raw replay; set parser.command in the config file or pass --parser (e.g. \"sc2parse --json %s\")",
			path, ReplayPlaceholder)
	}

	data, err := RunParser(ctx, parserCommand, path)
	if err != nil {
		return nil, err
	}
	r, err := Unmarshal(data, FormatJSON)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParser, err, "parser output for %s", path)
	}
	r.Source = path
	return r, nil
}
