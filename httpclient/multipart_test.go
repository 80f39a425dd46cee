package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func readParts(t *testing.T, r io.Reader, contentType string) map[string]*bytes.Buffer {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType error: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}
	parts := map[string]*bytes.Buffer{}
	mr := multipart.NewReader(r, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return parts
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, part)
		parts[part.FormName()] = &buf
	}
}

func TestMultipartBody_FieldsAndFile(t *testing.T) {
	mp := &MultipartBody{
		Fields: map[string]string{"caption": "me", "visibility": "public"},
		Files: []FileField{
			{FieldName: "avatar", FileName: "me.png", ContentType: "image/png", Data: []byte("png")},
		},
	}

	reader, contentType, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := readParts(t, reader, contentType)
	if parts["caption"].String() != "me" || parts["visibility"].String() != "public" {
		t.Errorf("unexpected fields: caption=%q visibility=%q", parts["caption"], parts["visibility"])
	}
	if parts["avatar"].String() != "png" {
		t.Errorf("avatar = %q, want png", parts["avatar"])
	}
}

func TestMultipartBody_DefaultPartContentType(t *testing.T) {
	mp := &MultipartBody{
		Files: []FileField{{FieldName: "doc", FileName: `a "quoted" name.txt`, Reader: bytes.NewReader([]byte("x"))}},
	}
	reader, _, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	data, _ := io.ReadAll(reader)
	if !bytes.Contains(data, []byte("Content-Type: application/octet-stream")) {
		t.Error("expected default octet-stream part content type")
	}
	if !bytes.Contains(data, []byte(`filename="a \"quoted\" name.txt"`)) {
		t.Errorf("file name should be escaped, got %s", data)
	}
}

func TestAdapter_Do_MultipartOverridesContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("Content-Type = %q, want multipart/form-data with boundary", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm error: %v", err)
			return
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("FormFile error: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "me.png" {
			t.Errorf("filename = %q, want me.png", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	adapter, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	resp, err := adapter.Do(t.Context(), Request{
		Method:  http.MethodPost,
		Path:    "/users/42/avatar",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body: &MultipartBody{
			Files: []FileField{{FieldName: "avatar", FileName: "me.png", Data: []byte("png")}},
		},
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
}
