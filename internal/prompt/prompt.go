// Package prompt asks the operator for numbers and yes/no answers and styles
// the wizard's terminal output.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks questions. A blank answer selects the given default.
type Prompter interface {
	Int(question string, min, max, blank int) (int, error)
	YesNo(question string, blank bool) (bool, error)
}

// ParseInt validates an answer to an integer prompt. An empty answer yields
// blank; anything else must be an integer within [min, max].
func ParseInt(answer string, min, max, blank int) (int, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return blank, nil
	}
	v, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", answer)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%d is out of range, choose between %d and %d", v, min, max)
	}
	return v, nil
}

// ParseYesNo validates an answer to a yes/no prompt. An empty answer yields blank.
func ParseYesNo(answer string, blank bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return blank, nil
	case "y", "yes", "j", "ja", "true", "1":
		return true, nil
	case "n", "no", "nein", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not yes or no", answer)
	}
}

// IntHint describes the accepted range, e.g. "0..3, default 0".
func IntHint(min, max, blank int) string {
	return fmt.Sprintf("%d..%d, default %d", min, max, blank)
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithAccessible switches to line based prompts that work without a full
// screen terminal (serial consoles, screen readers, piped input).
func WithAccessible(accessible bool) FormOption {
	return func(f *Form) { f.accessible = accessible }
}

// WithIO sets where prompts read answers from and render to.
func WithIO(in io.Reader, out io.Writer) FormOption {
	return func(f *Form) {
		f.in = in
		f.out = out
	}
}

// Form implements Prompter with huh forms.
type Form struct {
	accessible bool
	in         io.Reader
	out        io.Writer
	theme      *huh.Theme
}

// NewForm returns a huh backed Prompter.
func NewForm(opts ...FormOption) *Form {
	f := &Form{theme: huh.ThemeCharm()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(f.theme).
		WithAccessible(f.accessible)
	if f.in != nil {
		form = form.WithInput(f.in)
	}
	if f.out != nil {
		form = form.WithOutput(f.out)
	}
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// Int implements Prompter.
func (f *Form) Int(question string, min, max, blank int) (int, error) {
	var answer string
	input := huh.NewInput().
		Title(question).
		Description(IntHint(min, max, blank)).
		Placeholder(strconv.Itoa(blank)).
		Value(&answer).
		Validate(func(s string) error {
			_, err := ParseInt(s, min, max, blank)
			return err
		})
	if err := f.run(input); err != nil {
		return 0, err
	}
	return ParseInt(answer, min, max, blank)
}

// YesNo implements Prompter.
func (f *Form) YesNo(question string, blank bool) (bool, error) {
	answer := blank
	confirm := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if err := f.run(confirm); err != nil {
		return false, err
	}
	return answer, nil
}
