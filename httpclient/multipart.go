package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// MultipartBody is a multipart/form-data request body.
type MultipartBody struct {
	// Fields are plain form fields, written in key order.
	Fields map[string]string
	// Files are file parts, written after the fields.
	Files []FileField
}

// FileField is one file part of a multipart body.
type FileField struct {
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Data is used when Reader is nil.
	Data   []byte
	Reader io.Reader
}

// encode returns the body and its boundary-aware Content-Type.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		part, err := w.CreatePart(f.header())
		if err != nil {
			return nil, "", err
		}
		switch {
		case f.Reader != nil:
			_, err = io.Copy(part, f.Reader)
		default:
			_, err = part.Write(f.Data)
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (f FileField) header() textproto.MIMEHeader {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		`form-data; name="`+quoteEscaper.Replace(f.FieldName)+`"; filename="`+quoteEscaper.Replace(f.FileName)+`"`)
	h.Set("Content-Type", ct)
	return h
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
