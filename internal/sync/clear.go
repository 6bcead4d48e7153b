package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/agrios/cartedge/internal/domain"
)

// ClearResult records the outcome of removing one cart line during a clear.
type ClearResult struct {
	ProductID string
	Err       error
}

// ClearReport is the per-line outcome of a best-effort cart clear.
type ClearReport []ClearResult

// Failed returns the results whose removal failed.
func (r ClearReport) Failed() []ClearResult {
	var failed []ClearResult
	for _, res := range r {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// AllCleared reports whether every line was removed.
func (r ClearReport) AllCleared() bool {
	return len(r.Failed()) == 0
}

// ClearAll removes every line from the cart, one upstream delete per line.
// A failed delete does not stop the remaining deletes; failures end up in the
// report, never as an error. The mirror is emptied regardless: lines whose
// delete failed still exist upstream and come back on the next fetch.
func (e *Engine) ClearAll(ctx context.Context, cart *domain.Cart) ClearReport {
	report := make(ClearReport, 0, len(cart.Items))

	for _, item := range cart.Items {
		err := e.api.UpdateItem(ctx, cart.UserID, item.ProductID, 0)
		report = append(report, ClearResult{ProductID: item.ProductID, Err: err})

		if err != nil {
			e.logger.ErrorContext(ctx, "failed to clear cart line",
				slog.String("user_id", cart.UserID),
				slog.String("product_id", item.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := e.mirror.Delete(ctx, cart.UserID); err != nil {
		e.logger.ErrorContext(ctx, "failed to delete cart mirror",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}

	emptied := domain.NewCart(cart.UserID)
	emptied.UpdatedAt = time.Now().UTC()
	e.publishUpdated(ctx, emptied)
	return report
}
