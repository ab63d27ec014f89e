package pkg

// DefaultPageSize 每页帖子数
const DefaultPageSize = 10

// Page 一页结果的导航元数据
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Paginate 把请求页码收敛到 [1, totalPages]。
// 越界页码落到最近的合法页，而不是报错。
func Paginate(total int64, size, page int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Page{
		Number:     page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Offset 对应 SQL OFFSET
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
