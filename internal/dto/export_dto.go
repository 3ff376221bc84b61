package dto

import "notebooklm-be/pkg/citation"

// ExportResponse is the JSON document the citation viewer loads.
type ExportResponse struct {
	Timestamp       string              `json:"timestamp"`
	NotebookUrl     string              `json:"notebook_url"`
	Question        string              `json:"question"`
	ResponseText    string              `json:"response_text"`
	CleanHtml       string              `json:"clean_html"`
	Footnotes       []citation.Footnote `json:"footnotes"`
	NotebookSources []string            `json:"notebook_sources"`
	Model           string              `json:"model"`
}
