package highslp

import (
	"errors"
	"os"
)

type Option func(*Solver) error

func WithLogger(logger Logger) Option {
	return func(s *Solver) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		s.logger = logger
		s.quiet = false

		return nil
	}
}

// WithWorkDir sets the directory model and solution files are written to.
// It defaults to os.TempDir().
func WithWorkDir(dir string) Option {
	return func(s *Solver) error {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return &os.PathError{Op: "workdir", Path: dir, Err: errors.New("not a directory")}
		}
		s.workDir = dir

		return nil
	}
}

// WithKeepFiles leaves the model and solution files in the work directory
// after the call instead of removing them.
func WithKeepFiles(keep bool) Option {
	return func(s *Solver) error {
		s.keepFiles = keep

		return nil
	}
}

func WithIntOption(name string, value int) Option {
	return func(s *Solver) error {
		s.intOptions[name] = value

		return nil
	}
}

func WithBoolOption(name string, value bool) Option {
	return func(s *Solver) error {
		s.boolOptions[name] = value

		return nil
	}
}

func WithFloatOption(name string, value float64) Option {
	return func(s *Solver) error {
		s.floatOptions[name] = value

		return nil
	}
}

func WithStringOption(name, value string) Option {
	return func(s *Solver) error {
		s.stringOptions[name] = value

		return nil
	}
}

// WithOption sets a HiGHS option from its text form, e.g. "time_limit"
// to "30". The engine converts the value to the option's own type.
func WithOption(name, value string) Option {
	return func(s *Solver) error {
		s.textOptions[name] = value

		return nil
	}
}

// WithTimeLimit sets the HiGHS time_limit option, in seconds.
func WithTimeLimit(seconds float64) Option {
	return func(s *Solver) error {
		if seconds <= 0 {
			return errors.New("time limit must be positive")
		}
		s.floatOptions["time_limit"] = seconds

		return nil
	}
}
