package replay

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/observability"
)

// ReplayPlaceholder is substituted with the replay path in parser commands.
const ReplayPlaceholder = "{replay}"

// RunParser runs an external replay parser and returns its stdout.
//
// The command template is split on whitespace; every field containing
// ReplayPlaceholder has it replaced by replayPath, so paths with spaces stay a
// single argument. The parser must print the output contract as JSON.
func RunParser(ctx context.Context, command, replayPath string) ([]byte, error) {
	if err := errors.ValidateParserCommand(command); err != nil {
		return nil, err
	}

	args := strings.Fields(command)
	for i, a := range args {
		args[i] = strings.ReplaceAll(a, ReplayPlaceholder, replayPath)
	}

	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParser, err,
			"replay parser %q not found in PATH", args[0])
	}

	hooks := observability.Parser()
	hooks.OnParserStart(ctx, command)
	start := time.Now()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			hooks.OnParserComplete(ctx, command, 0, time.Since(start), ctx.Err())
			return nil, ctx.Err()
		}
		err = errors.Wrap(errors.ErrCodeParser, fmt.Errorf("%v: %s", err, strings.TrimSpace(errBuf.String())),
			"run replay parser on %s", replayPath)
		hooks.OnParserComplete(ctx, command, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnParserComplete(ctx, command, out.Len(), time.Since(start), nil)
	return out.Bytes(), nil
}
