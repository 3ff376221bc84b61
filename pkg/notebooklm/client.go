package notebooklm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StorageState is the browser storage snapshot (cookies and local storage)
// that authenticates a NotebookLM session.
type StorageState struct {
	Cookies []StorageCookie `json:"cookies"`
	Origins []any           `json:"origins"`
}

type StorageCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
}

// ParseStorageState validates a storage-state document. A state without any
// cookies cannot authenticate and is rejected.
func ParseStorageState(raw []byte) (*StorageState, error) {
	var state StorageState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("invalid auth JSON: %w", err)
	}
	if len(state.Cookies) == 0 {
		return nil, errors.New("auth JSON contains no cookies - refusing to apply")
	}
	return &state, nil
}

func (s *StorageState) cookieHeader() string {
	pairs := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if c.Name == "" {
			continue
		}
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// Client talks to a NotebookLM bridge over JSON/HTTP using one session's
// cookies. A Client is immutable once built.
type Client struct {
	BaseURL string
	Client  *http.Client
	cookies string
}

// Ensure Client implements Engine
var _ Engine = &Client{}

func NewClient(baseURL string, state *StorageState, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
		cookies: state.cookieHeader(),
	}
}

// --- Request/Response structs (Internal to this package) ---

type askRequest struct {
	Question       string  `json:"question"`
	ConversationId *string `json:"conversation_id,omitempty"`
}

type askResponse struct {
	Answer         string              `json:"answer"`
	ConversationId string              `json:"conversation_id"`
	TurnNumber     int                 `json:"turn_number"`
	IsFollowUp     bool                `json:"is_follow_up"`
	References     []referenceResponse `json:"references"`
}

type referenceResponse struct {
	SourceId       *string `json:"source_id"`
	CitationNumber int     `json:"citation_number"`
	CitedText      *string `json:"cited_text"`
	StartChar      *int    `json:"start_char"`
	EndChar        *int    `json:"end_char"`
}

type fulltextResponse struct {
	SourceId string `json:"source_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type notebookResponse struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

type sourceResponse struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Interface Implementation ---

func (c *Client) Ask(ctx context.Context, notebookId, question string, conversationId *string) (*AskResult, error) {
	var res askResponse
	path := fmt.Sprintf("/api/notebooks/%s/ask", url.PathEscape(notebookId))
	if err := c.do(ctx, http.MethodPost, path, askRequest{Question: question, ConversationId: conversationId}, &res); err != nil {
		return nil, err
	}

	refs := make([]ChatReference, len(res.References))
	for i, r := range res.References {
		refs[i] = ChatReference{
			SourceId:       r.SourceId,
			CitationNumber: r.CitationNumber,
			CitedText:      r.CitedText,
			StartChar:      r.StartChar,
			EndChar:        r.EndChar,
		}
	}

	return &AskResult{
		Answer:         res.Answer,
		ConversationId: res.ConversationId,
		TurnNumber:     res.TurnNumber,
		IsFollowUp:     res.IsFollowUp,
		References:     refs,
	}, nil
}

func (c *Client) GetFulltext(ctx context.Context, notebookId, sourceId string) (*Fulltext, error) {
	var res fulltextResponse
	path := fmt.Sprintf("/api/notebooks/%s/sources/%s/fulltext", url.PathEscape(notebookId), url.PathEscape(sourceId))
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	if res.SourceId == "" {
		res.SourceId = sourceId
	}
	return &Fulltext{SourceId: res.SourceId, Title: res.Title, Content: res.Content}, nil
}

func (c *Client) ListNotebooks(ctx context.Context) ([]NotebookSummary, error) {
	var res []notebookResponse
	if err := c.do(ctx, http.MethodGet, "/api/notebooks", nil, &res); err != nil {
		return nil, err
	}
	out := make([]NotebookSummary, len(res))
	for i, n := range res {
		out[i] = NotebookSummary{Id: n.Id, Title: n.Title}
	}
	return out, nil
}

func (c *Client) ListSources(ctx context.Context, notebookId string) ([]SourceSummary, error) {
	var res []sourceResponse
	path := fmt.Sprintf("/api/notebooks/%s/sources", url.PathEscape(notebookId))
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	out := make([]SourceSummary, len(res))
	for i, s := range res {
		out[i] = SourceSummary{Id: s.Id, Title: s.Title, Type: s.Type}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookies != "" {
		req.Header.Set("Cookie", c.cookies)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("notebooklm request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		if len(msg) > 500 {
			msg = msg[:500]
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
