package work

// Metadata is the (URI, content hash) pair of a work. The two fields
// always change together through ChangeMetadata, never separately.
// The file behind the URI is immutable per address, so every content
// revision produces a fresh pair.
type Metadata struct {
	URI      string `json:"uri"`
	FileHash string `json:"file_hash"`
}

func (m Metadata) Empty() bool {
	return m.URI == "" && m.FileHash == ""
}
