package services

import "strconv"

// ListParams are the pagination, search and ordering options shared by list endpoints.
type ListParams struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder string
}

func (p ListParams) apply(q map[string]any) map[string]any {
	if q == nil {
		q = make(map[string]any)
	}
	if p.Page > 0 {
		q["page"] = p.Page
	}
	if p.PageSize > 0 {
		q["page_size"] = p.PageSize
	}
	if p.Search != "" {
		q["search"] = p.Search
	}
	if ordering := p.Ordering(); ordering != "" {
		q["ordering"] = ordering
	}
	return q
}

// Ordering renders SortBy with a leading "-" for descending order.
func (p ListParams) Ordering() string {
	if p.SortBy == "" {
		return ""
	}
	if p.SortOrder == "desc" {
		return "-" + p.SortBy
	}
	return p.SortBy
}

type BuildingFilter struct {
	ListParams
	CreatedBy string
}

func (f BuildingFilter) Query() map[string]any {
	q := f.apply(nil)
	if f.CreatedBy != "" {
		q["created_by"] = f.CreatedBy
	}
	return q
}

type RoomFilter struct {
	ListParams
	Building    int64
	IsAllocated *bool
	Capacity    int
	HasToilet   *bool
	HasWashroom *bool
}

func (f RoomFilter) Query() map[string]any {
	q := f.apply(nil)
	if f.Building > 0 {
		q["building"] = f.Building
	}
	if f.IsAllocated != nil {
		q["is_allocated"] = *f.IsAllocated
	}
	if f.Capacity > 0 {
		q["capacity"] = f.Capacity
	}
	if f.HasToilet != nil {
		q["has_toilet"] = *f.HasToilet
	}
	if f.HasWashroom != nil {
		q["has_washroom"] = *f.HasWashroom
	}
	return q
}

type ReportFilter struct {
	BuildingID int64
	DateFrom   string
	DateTo     string
	TimePeriod string
}

func (f ReportFilter) Query() map[string]any {
	q := map[string]any{
		"date_from":   f.DateFrom,
		"date_to":     f.DateTo,
		"time_period": f.TimePeriod,
	}
	if f.BuildingID > 0 {
		q["building_id"] = f.BuildingID
	}
	return q
}

type ServiceUnitFilter struct {
	ListParams
	Admin string
}

func (f ServiceUnitFilter) Query() map[string]any {
	q := f.apply(nil)
	if f.Admin != "" {
		q["admin"] = f.Admin
	}
	return q
}

type MemberFilter struct {
	ListParams
	Role string
}

func (f MemberFilter) Query() map[string]any {
	q := f.apply(nil)
	if f.Role != "" {
		q["role"] = f.Role
	}
	return q
}

// Filter is a free-form set of backend filters, such as status or is_active.
type Filter map[string]any

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
