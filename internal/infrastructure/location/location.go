// Package location provides the device position for terminal clients, which
// have no GPS: the position comes from configuration or flags and the
// permission answer from configuration or an interactive prompt.
package location

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
)

// Permission modes.
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
	PermissionPrompt  = "prompt"
)

// ErrPositionUnavailable is returned when no position was configured.
var ErrPositionUnavailable = errors.New("position unavailable: pass --lat and --lng")

// Fixed reports a configured position.
type Fixed struct {
	mode     string
	position *checkin.Coordinates
	in       io.Reader
	out      io.Writer
	isTTY    func() bool
	answered *bool
}

// NewFixed creates a locator. position may be nil when unknown.
func NewFixed(mode string, position *checkin.Coordinates) (*Fixed, error) {
	switch mode {
	case "":
		mode = PermissionPrompt
	case PermissionGranted, PermissionDenied, PermissionPrompt:
	default:
		return nil, fmt.Errorf("invalid location permission mode %q", mode)
	}
	return &Fixed{
		mode:     mode,
		position: position,
		in:       os.Stdin,
		out:      os.Stderr,
		isTTY:    func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}, nil
}

// RequestPermission answers from the configured mode. In prompt mode the user
// is asked once; without a terminal the request is denied.
func (f *Fixed) RequestPermission(ctx context.Context) (bool, error) {
	switch f.mode {
	case PermissionGranted:
		return true, nil
	case PermissionDenied:
		return false, nil
	}
	if f.answered != nil {
		return *f.answered, nil
	}
	if !f.isTTY() {
		return false, nil
	}

	fmt.Fprint(f.out, "Allow FitPass to use your location? [y/N] ")
	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(f.in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		line = strings.ToLower(strings.TrimSpace(line))
		granted := line == "y" || line == "yes" || line == "s" || line == "sim"
		f.answered = &granted
		return granted, nil
	}
}

func (f *Fixed) CurrentPosition(ctx context.Context) (checkin.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return checkin.Coordinates{}, err
	}
	if f.position == nil {
		return checkin.Coordinates{}, ErrPositionUnavailable
	}
	if err := f.position.Validate(); err != nil {
		return checkin.Coordinates{}, err
	}
	return *f.position, nil
}
