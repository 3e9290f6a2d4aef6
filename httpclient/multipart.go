package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Upload is a file sent in a multipart body.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Multipart collects form fields and files for a multipart/form-data request.
// Fields keep their insertion order.
type Multipart struct {
	fields []formField
	files  []formFile
}

type formField struct{ name, value string }

type formFile struct {
	name   string
	upload Upload
}

// NewMultipart returns an empty form.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field appends a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, formField{name, value})
	return m
}

// File appends a file part under the given field name.
func (m *Multipart) File(name string, upload Upload) *Multipart {
	m.files = append(m.files, formFile{name, upload})
	return m
}

// Len reports the number of parts.
func (m *Multipart) Len() int {
	return len(m.fields) + len(m.files)
}

// encode buffers the whole body; uploads here are a few images at most.
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("multipart field %s: %w", f.name, err)
		}
	}
	for _, f := range m.files {
		part, err := w.CreateFormFile(f.name, f.upload.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("multipart file %s: %w", f.name, err)
		}
		if _, err := io.Copy(part, f.upload.Content); err != nil {
			return nil, "", fmt.Errorf("multipart file %s: %w", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
