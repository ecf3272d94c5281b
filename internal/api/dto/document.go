package dto

type DocumentRequest struct {
	Paragraphs []string `json:"paragraphs"`
}

type ParagraphRequest struct {
	Text string `json:"text"`
}

type DocumentResponse struct {
	Paragraphs []string `json:"paragraphs"`
}
