package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

func readParts(t *testing.T, m *MultipartBody) []*partData {
	t.Helper()
	reader, contentType, err := m.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType error: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}

	var parts []*partData
	mr := multipart.NewReader(reader, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return parts
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts = append(parts, &partData{
			name:        part.FormName(),
			fileName:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        data,
		})
	}
}

type partData struct {
	name, fileName, contentType string
	data                        []byte
}

func TestMultipartBody_FieldsThenFiles(t *testing.T) {
	parts := readParts(t, &MultipartBody{
		Fields: map[string]string{"model": "whisper-1", "language": "en"},
		Files: []FileField{
			{FieldName: "file", FileName: "audio.mp3", ContentType: "audio/mpeg", Data: []byte("ID3")},
		},
	})

	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].name != "language" || parts[1].name != "model" {
		t.Errorf("fields must be written in key order, got %q, %q", parts[0].name, parts[1].name)
	}
	file := parts[2]
	if file.name != "file" || file.fileName != "audio.mp3" || file.contentType != "audio/mpeg" {
		t.Errorf("unexpected file part: %+v", file)
	}
	if !bytes.Equal(file.data, []byte("ID3")) {
		t.Errorf("file data = %q", file.data)
	}
}

func TestMultipartBody_DefaultContentTypeAndReader(t *testing.T) {
	parts := readParts(t, &MultipartBody{
		Files: []FileField{{FieldName: "file", FileName: `we"ird.bin`, Reader: bytes.NewReader([]byte("streamed"))}},
	})
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].contentType != "application/octet-stream" {
		t.Errorf("content type = %q", parts[0].contentType)
	}
	if parts[0].fileName != `we"ird.bin` {
		t.Errorf("file name = %q", parts[0].fileName)
	}
	if string(parts[0].data) != "streamed" {
		t.Errorf("data = %q", parts[0].data)
	}
}
