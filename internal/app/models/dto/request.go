package dto

// DashboardQuery carries the page-local sort and filter plus the flash messages.
// Page and size are read separately so a bad value falls back instead of failing the bind.
type DashboardQuery struct {
	Sort      string `form:"sort"`
	Desc      bool   `form:"desc"`
	FilterCol string `form:"filter_col"`
	Filter    string `form:"filter"`
	Notice    string `form:"notice"`
	Error     string `form:"error"`
}
