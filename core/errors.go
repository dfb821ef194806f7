package core

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration   = errors.New("invalid configuration")
	ErrUnknownState    = errors.New("unknown state")
	ErrGoalNotTrained  = errors.New("goal not trained")
	ErrActionExecution = errors.New("action execution failed")

	ErrEmptySpace = fmt.Errorf("%w: empty state or action space", ErrConfiguration)
)
