package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/supatools/supamove/dbtable"
	"github.com/supatools/supamove/retry"
)

// RESTStore talks to a Supabase project through its PostgREST endpoint,
// authenticated with a static service-role key.
type RESTStore struct {
	id         ID
	projectURL string
	baseURL    string
	key        string
	client     *http.Client
	retry      retry.Settings
}

var _ Store = (*RESTStore)(nil)

func ConnectREST(ctx context.Context, id ID, projectURL string, key string) (*RESTStore, error) {
	s := &RESTStore{
		id:         id,
		projectURL: projectURL,
		baseURL:    strings.TrimRight(projectURL, "/") + "/rest/v1",
		key:        key,
		client:     &http.Client{Timeout: time.Minute},
		retry:      retry.DefaultSettings(),
	}
	// Probe the endpoint; the PostgREST root responds to any
	// authenticated request.
	resp, err := s.do(ctx, http.MethodGet, "/", nil, "", nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: cannot connect to %s", id, projectURL)
	}
	switch resp.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, errors.Newf(
			"%s: authentication failed for %s: check the service role key (HTTP %d: %s)",
			id, projectURL, resp.status, restErrorMessage(resp.body),
		)
	}
	return s, nil
}

func (s *RESTStore) ID() ID {
	return s.id
}

func (s *RESTStore) URL() string {
	return s.projectURL
}

func (s *RESTStore) Close(ctx context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *RESTStore) SelectRange(
	ctx context.Context, table dbtable.Name, start int, end int,
) ([]Row, error) {
	q := url.Values{"select": []string{"*"}}
	hdr := http.Header{}
	hdr.Set("Range-Unit", "items")
	hdr.Set("Range", fmt.Sprintf("%d-%d", start, end))
	resp, err := s.do(ctx, http.MethodGet, "/"+url.PathEscape(table.Table), q, table.Schema, nil, hdr)
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching rows [%d,%d] of %s", start, end, table)
	}
	// PostgREST answers 416 when the range starts past the end of the
	// table, which for a pagination cursor just means exhaustion.
	if resp.status == http.StatusRequestedRangeNotSatisfiable {
		return nil, nil
	}
	if resp.status != http.StatusOK && resp.status != http.StatusPartialContent {
		return nil, s.restError(resp, "error fetching rows of %s", table)
	}
	var rows []Row
	if err := json.Unmarshal(resp.body, &rows); err != nil {
		return nil, errors.Wrapf(err, "error decoding rows of %s", table)
	}
	return rows, nil
}

func (s *RESTStore) Insert(ctx context.Context, table dbtable.Name, rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrapf(err, "error encoding rows for %s", table)
	}
	hdr := http.Header{}
	hdr.Set("Prefer", "return=minimal")
	resp, err := s.do(ctx, http.MethodPost, "/"+url.PathEscape(table.Table), nil, table.Schema, body, hdr)
	if err != nil {
		return errors.Wrapf(err, "error inserting into %s", table)
	}
	if resp.status != http.StatusCreated && resp.status != http.StatusOK {
		return s.restError(resp, "error inserting into %s", table)
	}
	return nil
}

func (s *RESTStore) Count(ctx context.Context, table dbtable.Name) (int64, error) {
	q := url.Values{"select": []string{"*"}}
	hdr := http.Header{}
	hdr.Set("Prefer", "count=exact")
	resp, err := s.do(ctx, http.MethodHead, "/"+url.PathEscape(table.Table), q, table.Schema, nil, hdr)
	if err != nil {
		return 0, errors.Wrapf(err, "error counting rows of %s", table)
	}
	if resp.status != http.StatusOK && resp.status != http.StatusPartialContent {
		return 0, s.restError(resp, "error counting rows of %s", table)
	}
	// Content-Range looks like "0-24/3573" or "*/0".
	cr := resp.header.Get("Content-Range")
	idx := strings.LastIndexByte(cr, '/')
	if idx < 0 {
		return 0, errors.Newf("malformed Content-Range %q counting rows of %s", cr, table)
	}
	n, err := strconv.ParseInt(cr[idx+1:], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed Content-Range %q counting rows of %s", cr, table)
	}
	return n, nil
}

func (s *RESTStore) ListTables(ctx context.Context, schemas []string) ([]dbtable.Name, error) {
	body, err := s.RPC(ctx, "list_tables", map[string]interface{}{"schemas": schemas})
	if err != nil {
		return nil, err
	}
	var entries []struct {
		TableSchema string `json:"table_schema"`
		TableName   string `json:"table_name"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, errors.Wrap(err, "error decoding table catalog")
	}
	names := make([]dbtable.Name, 0, len(entries))
	for _, e := range entries {
		names = append(names, dbtable.MakeName(e.TableSchema, e.TableName))
	}
	return names, nil
}

func (s *RESTStore) DropTable(ctx context.Context, table dbtable.Name) error {
	_, err := s.RPC(ctx, "drop_table", map[string]interface{}{"table_name": table.Qualified()})
	return err
}

// RPC calls a server-side function through PostgREST and returns the raw
// JSON response. A missing function is marked with ErrNoCatalogFunction.
func (s *RESTStore) RPC(ctx context.Context, fn string, args interface{}) (json.RawMessage, error) {
	var body []byte
	if args != nil {
		var err error
		if body, err = json.Marshal(args); err != nil {
			return nil, errors.Wrapf(err, "error encoding arguments for %s", fn)
		}
	}
	resp, err := s.do(ctx, http.MethodPost, "/rpc/"+url.PathEscape(fn), nil, "", body, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error calling %s", fn)
	}
	if resp.status == http.StatusNotFound && isMissingFunction(resp.body) {
		return nil, errors.Mark(
			errors.Newf("function %s does not exist on %s", fn, s.id),
			ErrNoCatalogFunction,
		)
	}
	if resp.status >= 300 {
		return nil, s.restError(resp, "error calling %s", fn)
	}
	return resp.body, nil
}

// PGRST202 is PostgREST's code for a function it cannot resolve.
func isMissingFunction(body []byte) bool {
	var e restErrorBody
	if err := json.Unmarshal(body, &e); err != nil {
		return false
	}
	return e.Code == "PGRST202" || strings.Contains(e.Message, "Could not find the function")
}

type restErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func restErrorMessage(body []byte) string {
	var e restErrorBody
	if err := json.Unmarshal(body, &e); err != nil || e.Message == "" {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 256 {
			msg = msg[:256]
		}
		return msg
	}
	if e.Details != "" {
		return e.Message + " (" + e.Details + ")"
	}
	return e.Message
}

func (s *RESTStore) restError(resp restResponse, format string, args ...interface{}) error {
	return errors.Newf(
		"%s: HTTP %d: %s", fmt.Sprintf(format, args...), resp.status, restErrorMessage(resp.body),
	)
}

type restResponse struct {
	status int
	header http.Header
	body   []byte
}

// do issues one HTTP request, retrying responses that indicate a
// transient server condition. An unreachable endpoint is reported with
// an actionable message rather than a bare transport error.
func (s *RESTStore) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	schema string,
	body []byte,
	extra http.Header,
) (restResponse, error) {
	var resp restResponse
	err := retry.Do(ctx, s.retry, func() error {
		u := s.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rd)
		if err != nil {
			return err
		}
		req.Header.Set("apikey", s.key)
		req.Header.Set("Authorization", "Bearer "+s.key)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if schema != "" && schema != dbtable.DefaultSchema {
			// PostgREST selects non-default schemas via profile headers.
			if method == http.MethodGet || method == http.MethodHead {
				req.Header.Set("Accept-Profile", schema)
			} else {
				req.Header.Set("Content-Profile", schema)
			}
		}
		for k, vs := range extra {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}
		httpResp, err := s.client.Do(req)
		if err != nil {
			return errors.Wrapf(err, "%s is not reachable", s.projectURL)
		}
		defer func() { _ = httpResp.Body.Close() }()
		b, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		resp = restResponse{status: httpResp.StatusCode, header: httpResp.Header, body: b}
		switch httpResp.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return retry.MarkRetryable(
				errors.Newf("transient HTTP %d from %s", httpResp.StatusCode, s.projectURL),
			)
		}
		return nil
	})
	return resp, err
}
