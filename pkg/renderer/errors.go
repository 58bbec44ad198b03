package renderer

import (
	"fmt"
)

// ConfigError reports an invalid render configuration field
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid render config: %s %s", e.Field, e.Reason)
}

// TileError captures a failure inside one tile's render loop, including
// recovered panics, so a single bad tile cannot take down the whole render
type TileError struct {
	TileIndex int
	Bounds    Tile
	Err       error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("tile %d [%d,%d)x[%d,%d): %v",
		e.TileIndex, e.Bounds.X0, e.Bounds.X1, e.Bounds.Y0, e.Bounds.Y1, e.Err)
}

func (e *TileError) Unwrap() error {
	return e.Err
}
