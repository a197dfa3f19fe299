package report

// ReportFile is a generated export ready to stream to the client.
type ReportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)
