package persistence

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

func exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func normalizeLookupEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
