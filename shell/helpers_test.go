// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"bytes"
	"database/sql"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/chorography/gazetteer"
	"github.com/jcodagnone/chorography/spatial"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func str(v string) sql.Null[string] {
	return sql.Null[string]{V: v, Valid: true}
}

func num(v float64) sql.Null[float64] {
	return sql.Null[float64]{V: v, Valid: true}
}

func record(title, period, region string, x, y float64) gazetteer.Record {
	return gazetteer.Record{
		Title: title,
		Metadata: gazetteer.Metadata{
			AuthorEra: str("（清）佚名"),
			Edition:   str("清刻本"),
			Period:    str(period),
			Region:    str(region),
			X:         num(x),
			Y:         num(y),
			SysID:     str("sys-" + title),
			URI:       str("http://example.org/" + title),
		},
	}
}

func testCatalog() *gazetteer.Catalog {
	return gazetteer.NewCatalog([]gazetteer.Record{
		record("X", "宋", "浙江", 110, 30),
		record("Y", "明", "江蘇", 115, 32),
		record("（乾隆）湖南通志174卷", "清", "湖南", 112.98, 28.19),
		{Title: "NoCoords", Metadata: gazetteer.Metadata{Period: str("元"), Region: str("山西")}},
	})
}

func testBaseMap() *spatial.BaseMap {
	square := orb.Polygon{{{100, 20}, {100, 40}, {120, 40}, {120, 20}, {100, 20}}}

	return &spatial.BaseMap{
		Polygons: []orb.Polygon{square},
		CRS:      spatial.CRS{Name: "GCS_WGS_1984"},
		Bound:    square.Bound(),
	}
}

type testServer struct {
	router  *gin.Engine
	server  *Server
	metrics *Metrics
	catalog *gazetteer.Catalog
	repo    gazetteer.Repository
}

func setupServerTest(t *testing.T, opts Options) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog := testCatalog()
	repo := gazetteer.NewRepository(db)
	require.NoError(t, gazetteer.MirrorCatalog(repo, catalog))

	if opts.Metrics == nil {
		opts.Metrics = NewMetricsForTesting()
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	}

	server := NewServer(catalog, testBaseMap(), repo, nil, opts)

	return &testServer{
		router:  server.Router(),
		server:  server,
		metrics: opts.Metrics,
		catalog: catalog,
		repo:    repo,
	}
}

// workbook returns an xlsx with the given header and rows.
func workbook(t *testing.T, columns []string, rows ...[]any) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, gazetteer.WriteWorkbook(&buf, columns, rows))

	return buf.Bytes()
}

// uploadRequest builds a multipart form post. An empty filename leaves the
// file field out.
func uploadRequest(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	return w
}

func parseHTML(t *testing.T, r io.Reader) *html.Node {
	t.Helper()

	doc, err := html.Parse(r)
	require.NoError(t, err)

	return doc
}

// findAll returns every element named tag below n, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node

	if n.Type == html.ElementNode && n.Data == tag {
		out = append(out, n)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, tag)...)
	}

	return out
}

// findClass returns the first element carrying class, or nil.
func findClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "class") == class {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findClass(c, class); found != nil {
			return found
		}
	}

	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

// nodeText concatenates the trimmed text below n, space separated.
func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if tmp := strings.TrimSpace(n.Data); tmp != "" {
				if sb.Len() != 0 {
					sb.WriteByte(' ')
				}

				sb.WriteString(tmp)
			}

			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)

	return sb.String()
}
