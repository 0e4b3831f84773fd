package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/live"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/model"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/service"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
)

// Client talks to a running collaboration server over its REST API.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient creates a client against localhost on the given port. The
// token is sent as a bearer credential on every request.
func NewClient(port, token string) *Client {
	return &Client{
		base:  "http://localhost:" + port + "/v1",
		token: token,
		http:  http.DefaultClient,
	}
}

// Error is a non-2xx response from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&payload)
		return &Error{Status: res.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

type CreateDocumentRequest struct {
	OwnerID  string            `json:"ownerId"`
	Kind     string            `json:"kind"`
	TenantID string            `json:"tenantId,omitempty"`
	Content  string            `json:"content,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

func (c *Client) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*model.Document, error) {
	doc := &model.Document{}
	if err := c.do(ctx, http.MethodPost, "/documents", req, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	doc := &model.Document{}
	if err := c.do(ctx, http.MethodGet, "/documents/"+id, nil, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) ListDocuments(ctx context.Context, filter store.DocumentFilter) ([]*model.Document, error) {
	path := "/documents?owner=" + filter.OwnerID + "&tenant=" + filter.TenantID +
		"&kind=" + filter.Kind + "&member=" + filter.MemberID

	var docs []*model.Document
	if err := c.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+id, nil, nil)
}

type JoinDocumentRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

func (c *Client) JoinDocument(ctx context.Context, docID string, req JoinDocumentRequest) (*live.Collaborator, error) {
	collaborator := &live.Collaborator{}
	if err := c.do(ctx, http.MethodPost, "/documents/"+docID+"/join", req, collaborator); err != nil {
		return nil, err
	}
	return collaborator, nil
}

func (c *Client) LeaveDocument(ctx context.Context, docID, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodPost, "/documents/"+docID+"/leave", body, nil)
}

func (c *Client) ListCollaborators(ctx context.Context, docID string) ([]*live.Collaborator, error) {
	var collaborators []*live.Collaborator
	if err := c.do(ctx, http.MethodGet, "/documents/"+docID+"/collaborators", nil, &collaborators); err != nil {
		return nil, err
	}
	return collaborators, nil
}

type ApplyOperationRequest struct {
	UserID          string `json:"userId"`
	Kind            string `json:"kind"`
	Position        int    `json:"position"`
	Content         string `json:"content,omitempty"`
	Length          int    `json:"length,omitempty"`
	BaselineVersion int64  `json:"baselineVersion"`
}

func (c *Client) ApplyOperation(ctx context.Context, docID string, req ApplyOperationRequest) (*model.Operation, error) {
	op := &model.Operation{}
	if err := c.do(ctx, http.MethodPost, "/documents/"+docID+"/operations", req, op); err != nil {
		return nil, err
	}
	return op, nil
}

func (c *Client) GetOperationLog(ctx context.Context, docID string) ([]*model.Operation, error) {
	var ops []*model.Operation
	if err := c.do(ctx, http.MethodGet, "/documents/"+docID+"/operations", nil, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

func (c *Client) LockDocument(ctx context.Context, docID, userID string) (*model.Document, error) {
	doc := &model.Document{}
	body := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodPost, "/documents/"+docID+"/lock", body, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) UnlockDocument(ctx context.Context, docID, userID string) (*model.Document, error) {
	doc := &model.Document{}
	body := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodPost, "/documents/"+docID+"/unlock", body, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) GetVersionHistory(ctx context.Context, docID string) ([]*service.VersionSnapshot, error) {
	var history []*service.VersionSnapshot
	if err := c.do(ctx, http.MethodGet, "/documents/"+docID+"/versions", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *Client) RestoreVersion(ctx context.Context, docID string, version int64, userID string) (*model.Document, error) {
	doc := &model.Document{}
	body := map[string]string{"userId": userID}
	path := fmt.Sprintf("/documents/%s/versions/%d/restore", docID, version)
	if err := c.do(ctx, http.MethodPost, path, body, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
