package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/Faultbox/stlsort/internal/classify"
	"github.com/Faultbox/stlsort/internal/input"
	"github.com/Faultbox/stlsort/internal/logger"
)

// ErrInvalidConfig marks configuration that cannot start a session.
var ErrInvalidConfig = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// Validate checks the config for problems that must stop startup.
// Every problem found is reported; each wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, invalid("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.Samples < 0 {
		errs = append(errs, invalid("multisample count %d", c.Window.Samples))
	}

	errs = append(errs, c.Session.validate()...)
	errs = append(errs, c.Orientation.validate()...)

	if a := c.Lighting.AmbientStrength; a < 0 || a > 1 {
		errs = append(errs, invalid("ambient_strength %v outside [0, 1]", a))
	}
	if !logger.ValidLevel(c.Logging.Level) {
		errs = append(errs, invalid("unknown log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

func (s SessionConfig) validate() []error {
	var errs []error

	if len(s.Queue) == 0 {
		errs = append(errs, invalid("work queue is empty"))
	} else if s.StartIndex < 0 || s.StartIndex >= len(s.Queue) {
		errs = append(errs, invalid("start index %d outside queue of %d", s.StartIndex, len(s.Queue)))
	}

	if len(s.Bindings) == 0 {
		errs = append(errs, invalid("no classification bindings"))
	}

	// Sorted for stable error order.
	keys := make([]string, 0, len(s.Bindings))
	for k := range s.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenKeys := make(map[string]string, len(keys))
	seenDests := make(map[string]string, len(keys))
	for _, k := range keys {
		dest := s.Bindings[k]
		norm := classify.NormalizeKey(k)

		switch {
		case norm == "":
			errs = append(errs, invalid("empty binding key"))
			continue
		case input.Reserved(norm):
			errs = append(errs, invalid("binding key %q is reserved for a viewer control", k))
		}
		if prev, ok := seenKeys[norm]; ok {
			errs = append(errs, invalid("binding keys %q and %q are the same key", prev, k))
		}
		seenKeys[norm] = k

		if dest == "" {
			errs = append(errs, invalid("binding %q has no destination", k))
			continue
		}
		clean := filepath.Clean(dest)
		if prev, ok := seenDests[clean]; ok {
			errs = append(errs, invalid("bindings %q and %q share destination %s", prev, k, dest))
		}
		seenDests[clean] = k
	}

	return errs
}

func (o OrientationConfig) validate() []error {
	var errs []error
	if o.MinDistance <= 0 {
		errs = append(errs, invalid("min_distance %v must be positive", o.MinDistance))
	}
	if o.MinDistance > o.MaxDistance {
		errs = append(errs, invalid("min_distance %v greater than max_distance %v", o.MinDistance, o.MaxDistance))
	}
	if o.DefaultDistance < o.MinDistance || o.DefaultDistance > o.MaxDistance {
		errs = append(errs, invalid("default_distance %v outside [%v, %v]", o.DefaultDistance, o.MinDistance, o.MaxDistance))
	}
	if o.ZoomSensitivity <= 0 {
		errs = append(errs, invalid("zoom_sensitivity %v must be positive", o.ZoomSensitivity))
	}
	return errs
}
