package replaysync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// UploadField is the multipart part that carries the replay.
	UploadField = "file"

	uploadPath = "upload"
	sniffLen   = 3072
)

// Uploader sends a finished replay to the ingestion server.
type Uploader interface {
	Upload(ctx context.Context, path string) error
}

// HTTPUploader posts replays as multipart/form-data to <server>/upload.
type HTTPUploader struct {
	fs        FileSystem
	client    *http.Client
	serverURL string
}

// NewHTTPUploader creates an uploader reading files from fsys. An empty serverURL is resolved
// with ResolveServerURL on every upload.
func NewHTTPUploader(fsys FileSystem, serverURL string) *HTTPUploader {
	if fsys == nil {
		fsys = DefaultFileSystem{}
	}
	return &HTTPUploader{
		fs:        fsys,
		client:    &http.Client{},
		serverURL: serverURL,
	}
}

// WithClient replaces the HTTP client. The default client has no timeout.
func (u *HTTPUploader) WithClient(client *http.Client) *HTTPUploader {
	if client != nil {
		u.client = client
	}
	return u
}

// Endpoint returns the URL uploads are posted to.
func (u *HTTPUploader) Endpoint() (string, error) {
	base := u.serverURL
	if base == "" {
		base = ResolveServerURL(nil)
	}
	endpoint, err := url.JoinPath(base, uploadPath)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", base, err)
	}
	return endpoint, nil
}

// Upload posts the file at path. The body is streamed from the file, so its length is
// not known up front. Any non-2xx response is an error.
func (u *HTTPUploader) Upload(ctx context.Context, path string) error {
	endpoint, err := u.Endpoint()
	if err != nil {
		return err
	}

	f, err := u.fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	head, err := sniff(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("reading %s: %w", path, err)
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		pw.CloseWithError(writeForm(mw, path, head, f))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("uploading %s: unexpected status %s", path, resp.Status)
	}
	return nil
}

// sniff reads up to sniffLen bytes from the start of r for content type detection.
func sniff(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return head[:n], nil
}

// writeForm writes the single-part form carrying the replay: head followed by the rest of r.
func writeForm(mw *multipart.Writer, path string, head []byte, r io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		UploadField, quoteEscaper.Replace(filepath.Base(path))))
	header.Set("Content-Type", mimetype.Detect(head).String())

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating form part: %w", err)
	}
	if _, err := io.Copy(part, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing form: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
