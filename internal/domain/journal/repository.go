package journal

import (
	"context"

	"paychain/internal/domain/paging"
)

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context, q paging.Query) (paging.Page[Entry], error)
}
