package images

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"golang.org/x/xerrors"
)

const (
	maxImageSize  = 10 << 20
	maxErrorBytes = 512
	fileField     = "file"
)

var (
	ErrMissingImageID = errors.New("upload response is missing an id")
	ErrEmptyImage     = errors.New("image is empty")
	ErrImageTooLarge  = errors.New("image is too large")
)

// Service fetches images from the web and re-uploads them to events.
type Service struct {
	httpClient *http.Client
	apiURL     string
	token      string
	runID      string
	logger     *slog.Logger
}

// NewService creates an image service posting to apiURL.
func NewService(httpClient *http.Client, apiURL, token, runID string, logger *slog.Logger) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		token:      token,
		runID:      runID,
		logger:     logger,
	}
}

// Fetch downloads the image at rawURL. name is used as the upload filename stem.
func (s *Service) Fetch(ctx context.Context, rawURL, name string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, xerrors.Errorf("cannot create image request: %w", err)
	}

	response, err := s.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("fetch image %s: %w", rawURL, err)
	}
	defer response.Body.Close()

	if err := checkStatus(response); err != nil {
		return nil, xerrors.Errorf("fetch image %s: %w", rawURL, err)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxImageSize+1))
	if err != nil {
		return nil, xerrors.Errorf("read image %s: %w", rawURL, err)
	}
	if len(data) == 0 {
		return nil, xerrors.Errorf("fetch image %s: %w", rawURL, ErrEmptyImage)
	}
	if len(data) > maxImageSize {
		return nil, xerrors.Errorf("fetch image %s: %w", rawURL, ErrImageTooLarge)
	}

	contentType := mediaType(response.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		contentType = mediaType(http.DetectContentType(data))
	}

	s.logger.Debug("image fetched", "url", rawURL, "size", len(data), "content_type", contentType)
	return &Image{
		Name:        name + extension(contentType),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Upload posts image as a multipart form to the event and returns the new image id.
func (s *Service) Upload(ctx context.Context, eventID string, image *Image) (string, error) {
	body, contentType, err := encodeForm(image)
	if err != nil {
		return "", xerrors.Errorf("encode image form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/events/%s/images", s.apiURL, url.PathEscape(eventID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", xerrors.Errorf("cannot create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	if s.runID != "" {
		req.Header.Set("X-Seed-Run", s.runID)
	}

	response, err := s.httpClient.Do(req)
	if err != nil {
		return "", xerrors.Errorf("upload image for event %s: %w", eventID, err)
	}
	defer response.Body.Close()

	if err := checkStatus(response); err != nil {
		return "", xerrors.Errorf("upload image for event %s: %w", eventID, err)
	}

	var res uploadResponse
	decoder := json.NewDecoder(response.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&res); err != nil {
		return "", xerrors.Errorf("decode upload response for event %s: %w", eventID, err)
	}

	imageID := idString(res.ID)
	if imageID == "" {
		return "", xerrors.Errorf("upload image for event %s: %w", eventID, ErrMissingImageID)
	}

	s.logger.Debug("image uploaded", "event_id", eventID, "image_id", imageID, "size", len(image.Data))
	return imageID, nil
}

func encodeForm(image *Image) (*bytes.Buffer, string, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, "", ErrEmptyImage
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, escapeQuotes(image.Name)))
	header.Set("Content-Type", image.ContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func checkStatus(response *http.Response) error {
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBytes))
	return xerrors.Errorf("unexpected status %d: %s", response.StatusCode, strings.TrimSpace(string(snippet)))
}

// idString accepts both string and numeric ids.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
