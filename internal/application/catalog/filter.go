package catalog

import "github.com/haccp/backend/internal/domain/shared"

func newDomainFilter(page, pageSize int, orderBy, orderDir, defaultOrderBy string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if orderBy == "" {
		orderBy = defaultOrderBy
	}
	if orderDir == "" {
		orderDir = "asc"
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  make(map[string]interface{}),
	}
}
