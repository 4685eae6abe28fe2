package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Multipart is a form-data body. It is sent as built, never re-encoded as JSON.
type Multipart struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
}

func NewMultipart() *Multipart {
	m := &Multipart{}
	m.writer = multipart.NewWriter(&m.buf)
	return m
}

func (m *Multipart) AddField(name, value string) error {
	return m.writer.WriteField(name, value)
}

func (m *Multipart) AddFile(field, filename string, r io.Reader) error {
	part, err := m.writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file %s: %w", field, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy form file %s: %w", field, err)
	}
	return nil
}

func (m *Multipart) ContentType() string {
	return m.writer.FormDataContentType()
}

// Reader finalises the body and returns it.
func (m *Multipart) Reader() io.Reader {
	if !m.closed {
		_ = m.writer.Close()
		m.closed = true
	}
	return bytes.NewReader(m.buf.Bytes())
}
