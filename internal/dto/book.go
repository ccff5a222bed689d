package dto

// CreateBookRequest binds the non-file fields of the multipart create form.
type CreateBookRequest struct {
	Titulo string `form:"titulo" validate:"required"`
	Area   string `form:"area" validate:"required"`
}

// UpdateBookRequest binds the optional non-file fields of the update form.
// Empty fields leave the stored value untouched.
type UpdateBookRequest struct {
	Titulo string `form:"titulo"`
	Area   string `form:"area"`
}

// ExportFormat selects the catalog export rendering.
type ExportFormat string

const (
	ExportPDF ExportFormat = "pdf"
	ExportCSV ExportFormat = "csv"
)
