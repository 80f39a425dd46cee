package httpclient

import (
	"bytes"
	"strings"
	"testing"
)

func TestRequest_Buffered_Reader(t *testing.T) {
	req, err := Request{Body: strings.NewReader("payload")}.Buffered()
	if err != nil {
		t.Fatalf("Buffered() error: %v", err)
	}
	for i := 0; i < 2; i++ {
		body, _, err := encodeBody(req.Body)
		if err != nil {
			t.Fatalf("encodeBody error: %v", err)
		}
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(body)
		if buf.String() != "payload" {
			t.Errorf("send %d body = %q, want payload", i+1, buf.String())
		}
	}
}

func TestRequest_Buffered_MultipartReader(t *testing.T) {
	orig := &MultipartBody{
		Fields: map[string]string{"caption": "me"},
		Files:  []FileField{{FieldName: "file", FileName: "a.png", Reader: strings.NewReader("png-bytes")}},
	}
	req, err := Request{Body: orig}.Buffered()
	if err != nil {
		t.Fatalf("Buffered() error: %v", err)
	}
	if orig.Files[0].Reader == nil {
		t.Error("caller's multipart body must not be modified")
	}

	mp := req.Body.(*MultipartBody)
	for i := 0; i < 2; i++ {
		body, ct, err := mp.encode()
		if err != nil {
			t.Fatalf("encode error: %v", err)
		}
		parts := readParts(t, body, ct)
		if got := parts["file"].String(); got != "png-bytes" {
			t.Errorf("send %d file = %q, want png-bytes", i+1, got)
		}
		if got := parts["caption"].String(); got != "me" {
			t.Errorf("send %d caption = %q, want me", i+1, got)
		}
	}
}

func TestRequest_Buffered_LeavesOtherBodies(t *testing.T) {
	body := map[string]string{"title": "hi"}
	req, err := Request{Body: body}.Buffered()
	if err != nil {
		t.Fatalf("Buffered() error: %v", err)
	}
	if _, ok := req.Body.(map[string]string); !ok {
		t.Errorf("Body type = %T, want map[string]string", req.Body)
	}
}
