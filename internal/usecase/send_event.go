package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/V4T54L/send-event/internal/domain"
)

// ManualSource is the Result source of a manually assembled event.
const ManualSource = "manual"

// Input selects between file replay (Path set) and manual assembly.
type Input struct {
	Path   string
	Manual ManualInput
}

// Result identifies one dispatched event.
type Result struct {
	Source string
	ID     domain.EventID
}

// SendEventUseCase selects the input mode, builds or loads events and
// dispatches them sequentially.
type SendEventUseCase struct {
	credentials domain.CredentialSource
	assembler   *Assembler
	dispatcher  *Dispatcher
	out         io.Writer
	logger      *slog.Logger
}

// NewSendEventUseCase creates a new SendEventUseCase. Result lines are
// written to out.
func NewSendEventUseCase(credentials domain.CredentialSource, assembler *Assembler, dispatcher *Dispatcher, out io.Writer, logger *slog.Logger) *SendEventUseCase {
	return &SendEventUseCase{
		credentials: credentials,
		assembler:   assembler,
		dispatcher:  dispatcher,
		out:         out,
		logger:      logger,
	}
}

// Execute runs the command. The credential is resolved before anything else.
// Results dispatched before a failure are returned alongside the error.
func (uc *SendEventUseCase) Execute(ctx context.Context, in Input) ([]Result, error) {
	dsn, err := uc.credentials.DSN()
	if err != nil {
		if !errors.Is(err, domain.ErrConfiguration) {
			err = fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}
		return nil, err
	}

	if in.Path != "" {
		paths, err := expandPattern(in.Path)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			uc.logger.Warn("did not match any files for pattern", "pattern", in.Path)
			return nil, nil
		}
		return uc.replay(ctx, paths, dsn)
	}

	event, err := uc.assembler.Assemble(in.Manual)
	if err != nil {
		return nil, err
	}

	result := Result{Source: ManualSource, ID: uc.dispatcher.Dispatch(ctx, event, dsn)}
	uc.report(result)
	return []Result{result}, nil
}

// replay loads and dispatches each file in order. The first file that
// cannot be loaded stops the run.
func (uc *SendEventUseCase) replay(ctx context.Context, paths []string, dsn domain.DSN) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		event, err := loadEvent(path)
		if err != nil {
			return results, err
		}

		result := Result{Source: path, ID: uc.dispatcher.Dispatch(ctx, event, dsn)}
		uc.report(result)
		results = append(results, result)
	}
	return results, nil
}

func (uc *SendEventUseCase) report(r Result) {
	if r.Source == ManualSource {
		fmt.Fprintf(uc.out, "Event dispatched: %s\n", r.ID)
		return
	}
	fmt.Fprintf(uc.out, "Event from file %s dispatched: %s\n", r.Source, r.ID)
}

// expandPattern expands a shell glob, including "**", in directory listing
// order. A missing base directory is a pattern with no matches.
func expandPattern(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to expand pattern %q: %w", domain.ErrIO, pattern, err)
	}
	return paths, nil
}

// loadEvent decodes one JSON event file. The whole file must be a single
// JSON value. Unknown fields are ignored; type mismatches and trailing data
// are validation errors.
func loadEvent(path string) (*domain.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read event file: %w", domain.ErrIO, err)
	}

	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: failed to decode event file %s: %w", domain.ErrValidation, path, err)
	}
	return &event, nil
}
