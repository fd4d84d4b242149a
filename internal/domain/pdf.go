package domain

// PDFMetadata contains information read from a PDF before text extraction.
type PDFMetadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	PageCount int    `json:"page_count"`
	FileSize  int64  `json:"file_size"`
}

// PDFPage is the sanitized text of one page, 1-indexed.
type PDFPage struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}
