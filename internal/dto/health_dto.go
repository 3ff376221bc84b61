package dto

type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Database       string `json:"database"`
	NotebookLMAuth string `json:"notebooklm_auth"`
}

type StatusResponse struct {
	Status              string   `json:"status"`
	Version             string   `json:"version"`
	Database            string   `json:"database"`
	DatabaseTables      []string `json:"database_tables"`
	NotebookLMAuth      string   `json:"notebooklm_auth"`
	NotebookLMNotebooks *int     `json:"notebooklm_notebooks"`
	RefreshConfigured   bool     `json:"refresh_configured"`
}

type RefreshAuthResponse struct {
	Status      string `json:"status"`
	RefreshedAt string `json:"refreshed_at"`
}
