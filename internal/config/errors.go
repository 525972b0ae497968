package config

import (
	"errors"

	"github.com/san-kum/pidball/internal/panel"
)

var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	// It is the same sentinel the panel returns.
	ErrParameterBounds = panel.ErrParameterBounds

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("config: unknown preset")
)
