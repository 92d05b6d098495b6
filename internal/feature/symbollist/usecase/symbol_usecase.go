// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"log/slog"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for watchlist symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	InsertMissing(ctx context.Context, symbols []entity.Symbol) (int64, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo     SymbolRepository
	defaults []entity.Symbol
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
// defaults are served while the table has no active rows.
func NewSymbolUsecase(r SymbolRepository, defaults []entity.Symbol) *SymbolUsecase {
	return &SymbolUsecase{repo: r, defaults: defaults}
}

// ListActiveSymbols returns all active symbols, or the defaults when there are none.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	symbols, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return u.defaults, nil
	}
	return symbols, nil
}

// ActiveCodes returns the watchlist codes.
// A repository failure is logged and the default list is used instead.
func (u *SymbolUsecase) ActiveCodes(ctx context.Context) ([]string, error) {
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Warn("symbol table unavailable, using default watchlist", "error", err)
		return entity.Codes(u.defaults), nil
	}
	if len(codes) == 0 {
		return entity.Codes(u.defaults), nil
	}
	return codes, nil
}

// Seed inserts the default symbols that are not in the table yet.
func (u *SymbolUsecase) Seed(ctx context.Context) error {
	n, err := u.repo.InsertMissing(ctx, u.defaults)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("seeded watchlist symbols", "inserted", n)
	}
	return nil
}
