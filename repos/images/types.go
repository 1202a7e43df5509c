package images

// Image is a fetched image ready to be re-uploaded.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

type uploadResponse struct {
	ID any `json:"id"`
}
