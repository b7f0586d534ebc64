package usecase

import (
	"context"

	"github.com/sporating/sporating/internal/domain/event"
)

// SportGateway is one provider integration. Implementations never return
// errors: a broken provider yields an empty result so one sport cannot
// sink a whole import run.
type SportGateway interface {
	Sport() string
	FetchEvents(ctx context.Context, season string) event.FetchResult
}
