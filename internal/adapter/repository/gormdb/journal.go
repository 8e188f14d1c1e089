package gormdb

import (
	"context"
	"strings"

	"gorm.io/gorm"

	journalDomain "paychain/internal/domain/journal"
	"paychain/internal/domain/paging"
)

type JournalRepository struct{ db *gorm.DB }

func NewJournalRepository(db *gorm.DB) *JournalRepository { return &JournalRepository{db: db} }

func (r *JournalRepository) Append(ctx context.Context, e *journalDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// sortable whitelists the columns List may order by.
var sortable = map[string]string{
	"createdAt":  "created_at",
	"entityKind": "entity_kind",
	"entityId":   "entity_id",
	"action":     "action",
	"outcome":    "outcome",
}

func (r *JournalRepository) List(ctx context.Context, q paging.Query) (paging.Page[journalDomain.Entry], error) {
	q = q.Normalize()

	tx := r.db.WithContext(ctx).Model(&journalDomain.Entry{})
	if q.Status != "" && !strings.EqualFold(q.Status, "ALL") {
		tx = tx.Where("outcome = ?", strings.ToUpper(q.Status))
	}
	if q.SingleDate != "" {
		tx = tx.Where("DATE(created_at) = ?", q.SingleDate)
	} else {
		if q.StartDate != "" {
			tx = tx.Where("DATE(created_at) >= ?", q.StartDate)
		}
		if q.EndDate != "" {
			tx = tx.Where("DATE(created_at) <= ?", q.EndDate)
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return paging.Page[journalDomain.Entry]{}, err
	}

	col, ok := sortable[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortDir, "asc") {
		dir = "ASC"
	}

	var entries []journalDomain.Entry
	err := tx.Order(col + " " + dir + ", id DESC").
		Offset(q.Page * q.Size).
		Limit(q.Size).
		Find(&entries).Error
	if err != nil {
		return paging.Page[journalDomain.Entry]{}, err
	}
	return paging.Of(entries, q.Page, q.Size, total), nil
}
