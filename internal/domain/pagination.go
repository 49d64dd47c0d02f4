package domain

// Page параметры постраничной выборки
type Page struct {
	Number int // начиная с 1
	Limit  int
}

// Normalize приводит номер страницы и размер к допустимым значениям
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset смещение для SQL
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Pagination метаданные списка
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

// NewPagination считает метаданные по нормализованной странице и общему числу записей
func NewPagination(page Page, total int) Pagination {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = (total + page.Limit - 1) / page.Limit
	}
	return Pagination{
		CurrentPage:  page.Number,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: page.Limit,
		HasNext:      page.Number < totalPages,
		HasPrev:      page.Number > 1,
	}
}
