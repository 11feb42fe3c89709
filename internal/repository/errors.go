package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrToggleConflict 并发的同 key 切换中，插入命中唯一约束（另一方已先写入）
	ErrToggleConflict = errors.New("concurrent toggle on the same key")
	ErrAlreadyMember  = errors.New("video already in playlist")
	ErrNotMember      = errors.New("video not in playlist")
)

// toggleRow 依赖唯一索引实现按 key 原子切换：
// 先条件删除，删到即为取消；否则 INSERT ... ON CONFLICT DO NOTHING，
// 插入 0 行说明并发请求已抢先建立关系。
func toggleRow(ctx context.Context, db *gorm.DB, match func(*gorm.DB) *gorm.DB, table any, row any) (bool, error) {
	res := match(db.WithContext(ctx)).Delete(table)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	res = db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, ErrToggleConflict
	}
	return true, nil
}

// countRow GROUP BY 计数结果
type countRow struct {
	GroupKey string
	Total    int64
}

func toCountMap(rows []countRow) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.GroupKey] = r.Total
	}
	return m
}
