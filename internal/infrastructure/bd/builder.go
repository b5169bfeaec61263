package db

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"asset-system/pkg/types"
)

// ApplyFilters добавляет WHERE по filter[...] и search. Колонки берутся только
// из allowedMap, неизвестные поля молча пропускаются.
func ApplyFilters(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string, searchColumns ...string) sq.SelectBuilder {
	for jsonField, val := range filter.Filter {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}

		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			builder = builder.Where(sq.Eq{dbCol: val})
		}
	}

	if search := strings.TrimSpace(filter.Search); search != "" && len(searchColumns) > 0 {
		or := sq.Or{}
		for _, col := range searchColumns {
			or = append(or, sq.ILike{col: "%" + search + "%"})
		}
		builder = builder.Where(or)
	}

	return builder
}

func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string, defaultOrder string, searchColumns ...string) sq.SelectBuilder {
	builder = ApplyFilters(builder, filter, allowedMap, searchColumns...)

	// порядок ключей map случаен, сортируем чтобы ORDER BY был стабильным
	fields := make([]string, 0, len(filter.Sort))
	for jsonField := range filter.Sort {
		fields = append(fields, jsonField)
	}
	sort.Strings(fields)

	ordered := false
	for _, jsonField := range fields {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(filter.Sort[jsonField]) == "desc" {
			sqlDir = "DESC"
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
		ordered = true
	}
	if !ordered && defaultOrder != "" {
		builder = builder.OrderBy(defaultOrder)
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset >= 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}
