package s3

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/blob/blobtest"
)

// fakeS3 answers path-style requests for a single bucket from memory.
type fakeS3 struct {
	mu     sync.Mutex
	bucket string
	objs   map[string]fakeObject
}

type fakeObject struct {
	data        []byte
	contentType string
	meta        map[string]string
	modified    time.Time
}

type listResult struct {
	XMLName     xml.Name      `xml:"ListBucketResult"`
	Name        string        `xml:"Name"`
	Prefix      string        `xml:"Prefix"`
	KeyCount    int           `xml:"KeyCount"`
	IsTruncated bool          `xml:"IsTruncated"`
	Contents    []listContent `xml:"Contents"`
}

type listContent struct {
	Key          string `xml:"Key"`
	Size         int64  `xml:"Size"`
	ETag         string `xml:"ETag"`
	LastModified string `xml:"LastModified"`
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(req.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	if bucket != f.bucket {
		return respond(req, http.StatusNotFound, nil, errorXML("NoSuchBucket")), nil
	}

	switch {
	case req.Method == http.MethodGet && key == "":
		return f.list(req), nil
	case req.Method == http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		meta := map[string]string{}
		for h, v := range req.Header {
			if strings.HasPrefix(strings.ToLower(h), "x-amz-meta-") {
				meta[strings.ToLower(strings.TrimPrefix(strings.ToLower(h), "x-amz-meta-"))] = v[0]
			}
		}
		f.objs[key] = fakeObject{data: body, contentType: req.Header.Get("Content-Type"), meta: meta, modified: time.Now().UTC()}
		h := http.Header{}
		h.Set("ETag", etag(body))
		return respond(req, http.StatusOK, h, nil), nil
	case req.Method == http.MethodHead || req.Method == http.MethodGet:
		obj, ok := f.objs[key]
		if !ok {
			if req.Method == http.MethodHead {
				return respond(req, http.StatusNotFound, nil, nil), nil
			}
			return respond(req, http.StatusNotFound, nil, errorXML("NoSuchKey")), nil
		}
		h := http.Header{}
		h.Set("Content-Length", fmt.Sprint(len(obj.data)))
		h.Set("Content-Type", obj.contentType)
		h.Set("ETag", etag(obj.data))
		h.Set("Last-Modified", obj.modified.Format(http.TimeFormat))
		for k, v := range obj.meta {
			h.Set("x-amz-meta-"+k, v)
		}
		if req.Method == http.MethodHead {
			return respond(req, http.StatusOK, h, nil), nil
		}
		return respond(req, http.StatusOK, h, obj.data), nil
	case req.Method == http.MethodDelete:
		delete(f.objs, key)
		return respond(req, http.StatusNoContent, nil, nil), nil
	}
	return respond(req, http.StatusMethodNotAllowed, nil, nil), nil
}

func (f *fakeS3) list(req *http.Request) *http.Response {
	prefix := req.URL.Query().Get("prefix")
	res := listResult{Name: f.bucket, Prefix: prefix}
	for k, o := range f.objs {
		if strings.HasPrefix(k, prefix) {
			res.Contents = append(res.Contents, listContent{
				Key:          k,
				Size:         int64(len(o.data)),
				ETag:         etag(o.data),
				LastModified: o.modified.Format("2006-01-02T15:04:05.000Z"),
			})
		}
	}
	sort.Slice(res.Contents, func(i, j int) bool { return res.Contents[i].Key < res.Contents[j].Key })
	res.KeyCount = len(res.Contents)
	body, _ := xml.Marshal(res)
	h := http.Header{}
	h.Set("Content-Type", "application/xml")
	return respond(req, http.StatusOK, h, body)
}

func etag(b []byte) string { return fmt.Sprintf(`"%x"`, len(b)) }

func errorXML(code string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>` + code + `</Code><Message>not found</Message></Error>`)
}

func respond(req *http.Request, status int, h http.Header, body []byte) *http.Response {
	if h == nil {
		h = http.Header{}
	}
	if body != nil && h.Get("Content-Type") == "" {
		h.Set("Content-Type", "application/xml")
	}
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	fake := &fakeS3{bucket: "heritage", objs: map[string]fakeObject{}}
	s, err := New(context.Background(), Config{
		Bucket:          "heritage",
		Region:          "us-east-1",
		Endpoint:        "http://s3.test",
		PathStyle:       true,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		HTTPClient:      &http.Client{Transport: fake},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t)
	if s.Driver() != blob.DriverS3 {
		t.Errorf("Driver = %s", s.Driver())
	}
	blobtest.Run(t, s)
}

func TestPresignURL(t *testing.T) {
	s := newTestStore(t)
	u, err := s.PresignURL(context.Background(), "exports/1/a.pdf", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"http://s3.test/heritage/exports/1/a.pdf", "X-Amz-Signature=", "X-Amz-Expires=60"} {
		if !strings.Contains(u, want) {
			t.Errorf("PresignURL = %q, missing %q", u, want)
		}
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Error("New without bucket should fail")
	}
}
