// Package importer sends a photo of a list to an extraction service and
// returns the todo items it found.
package importer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Item is a partial todo as returned by the extraction service.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Client struct {
	url    string
	client *http.Client
}

// NewClient posts to url, using http.DefaultClient when client is nil.
func NewClient(url string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: url, client: client}
}

// DataURL encodes image as a data: URL, sniffing its content type.
func DataURL(image []byte) string {
	return "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// Extract uploads image and returns the extracted items. A non-2xx response
// is reported with the service's error message when it sends one.
func (c *Client) Extract(ctx context.Context, image []byte) ([]Item, error) {
	if len(image) == 0 {
		return nil, errors.New("image is empty")
	}
	body, err := json.Marshal(map[string]string{"image": DataURL(image)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("import request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return nil, errors.New(e.Error)
		}
		return nil, errors.New("import failed")
	}

	var out struct {
		Todos []Item `json:"todos"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Todos == nil {
		out.Todos = []Item{}
	}
	return out.Todos, nil
}
