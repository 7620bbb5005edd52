package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// ErrNotFound marks a 404 from the backend so callers can decide whether the
// absence is an error (a prompt that vanished) or an empty state (no stored
// test history yet).
var ErrNotFound = errors.New("backend resource not found")

type reqConfig struct {
	Method    string
	Url       string
	UrlParams []string
	Headers   []string
	Body      []byte
}

func (c reqConfig) fullUrl() string {
	if len(c.UrlParams) == 0 {
		return c.Url
	}
	return fmt.Sprintf("%s?%s", c.Url, strings.Join(c.UrlParams, "&"))
}

func requestRaw(ctx context.Context, config reqConfig, expectedResCode int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, config.Method, config.fullUrl(), bytes.NewBuffer(config.Body))

	if err != nil {
		return nil, err
	}

	for i := 0; i < len(config.Headers); i++ {
		headerKV := strings.SplitN(config.Headers[i], ":", 2)
		req.Header.Add(headerKV[0], strings.TrimSpace(headerKV[1]))
	}

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		drain(resp.Body)
		return nil, ErrNotFound
	} else if resp.StatusCode != expectedResCode {
		drain(resp.Body)
		return nil, fmt.Errorf("unexpected response status code %d from %s", resp.StatusCode, config.Url)
	}

	return read(resp.Body)
}

func request[T any](ctx context.Context, config reqConfig, expectedResCode int) (*T, error) {
	body, err := requestRaw(ctx, config, expectedResCode)

	if err != nil {
		return nil, err
	}

	var t *T
	t, err = readJSON[T](body)

	if err != nil {
		return nil, err
	}

	return t, nil
}

func readJSON[T any](content []byte) (*T, error) {
	var t *T
	err := json.Unmarshal(content, &t)

	if err != nil {
		return nil, err
	}

	return t, nil
}

func read(reader io.ReadCloser) ([]byte, error) {
	var err error

	defer func() {
		err = reader.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	var content []byte
	content, err = io.ReadAll(reader)

	if err != nil {
		return nil, err
	}

	return content, nil
}

func drain(reader io.ReadCloser) {
	_, _ = io.Copy(io.Discard, reader)
	_ = reader.Close()
}
