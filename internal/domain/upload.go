package domain

// FileAttachment is the metadata of a file attached to a project.
// Only the name and size are recorded; file contents are never stored.
type FileAttachment struct {
	Name string `bson:"name" json:"name"`
	Size int64  `bson:"size" json:"size"` // Bytes, never negative
}

// FileInput is an unsanitized file descriptor as received from a client.
// Size is a pointer because clients may omit it.
type FileInput struct {
	Name string
	Size *int64
}
