// RecordsData is a paginated response payload for the log table and the gallery.
package dto

type RecordsData struct {
	Records     []RecordInfo `json:"records"`
	Length      int          `json:"length"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Limit       int          `json:"pageSize"`
	SortField   string       `json:"sortField"`
	Ascending   bool         `json:"ascending"`
}

// ImagesData extends RecordsData with storage details shown by the gallery.
type ImagesData struct {
	RecordsData
	ImagesDir string `json:"imagesDir"`
	Size      int64  `json:"size"`
}
