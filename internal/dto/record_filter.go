// RecordFilters describe user-provided selectors that narrow the capture list.
// Each field left empty or set to "All" places no constraint.
package dto

type RecordFilters struct {
	Age    string
	Gender string
	Date   string
}
