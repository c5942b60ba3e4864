package main

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

type httpClient struct {
	base   string
	token  string
	client *http.Client
}

func newHTTPClient(base, token string) *httpClient {
	return &httpClient{
		base:  base,
		token: token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (h *httpClient) post(path string) error {
	req, err := http.NewRequest(http.MethodPost, h.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, body)
	}
	return nil
}
