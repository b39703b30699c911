package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/comercial/backend/internal/domain/shared"
)

// orderableColumns whitelists sort columns to keep user input out of SQL
var orderableColumns = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"on_hand_quantity":  true,
	"reserved_quantity": true,
	"min_quantity":      true,
	"status":            true,
	"expires_at":        true,
	"movement_date":     true,
	"code":              true,
	"name":              true,
}

// applyFilter applies ordering and pagination from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := "created_at"
	if filter.OrderBy != "" && orderableColumns[filter.OrderBy] {
		orderBy = filter.OrderBy
	}
	orderDir := "desc"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
