package tui

import (
	"context"

	"github.com/Overland-East-Bay/family-planner-api/internal/app/roster"
)

var _ roster.Confirmer = Confirmer{}

// Confirmer asks yes/no questions through a PromptDriver. "No" is the default.
type Confirmer struct {
	Driver PromptDriver
}

func (c Confirmer) Confirm(ctx context.Context, message string) (bool, error) {
	return c.Driver.Confirm(ctx, ConfirmConfig{Message: message, Default: false})
}
