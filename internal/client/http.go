package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPInvoker posts requests to a proxy endpoint.
type HTTPInvoker struct {
	Client   *http.Client
	Endpoint string
}

func (i *HTTPInvoker) Invoke(ctx context.Context, request Request) (Result, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := i.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var result Result
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)
	if decodeErr == nil && (result.Error != "" || result.Image != "") {
		return result, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("proxy returned a non-2xx status code: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return Result{}, fmt.Errorf("decoding proxy response: %w", decodeErr)
	}
	return result, nil
}
