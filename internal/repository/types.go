package repository

// AffiliateListFilter 查询推广账号列表的过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	Status   string
	UserID   string
	Search   string
}

// VisitListFilter 查询访问记录列表的过滤条件
type VisitListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	LinkID      uint
	Converted   *bool
}

// CommissionListFilter 查询佣金列表的过滤条件
type CommissionListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	Status      string
	OrderID     string
}
