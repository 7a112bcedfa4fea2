package cas

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/MixinNetwork/ipo/work"
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// The registry never validates metadata on the mutation path, it only
// requires that the backing store be content addressed and immutable
// per URI. This package holds the off-chain conventions: ipfs URIs
// with a decodable CID, and sha256 multihash digests as file hashes.

const Scheme = "ipfs"

var (
	ErrScheme = errors.New("cas: unsupported uri scheme")
	ErrDigest = errors.New("cas: malformed content digest")
)

// ParseURI splits an ipfs://CID[/path] reference and decodes the CID.
// Any other scheme fails with ErrScheme.
func ParseURI(uri string) (cid.Cid, string, error) {
	if !strings.HasPrefix(uri, Scheme+"://") {
		return cid.Undef, "", fmt.Errorf("%w %s", ErrScheme, uri)
	}
	rest, path, _ := strings.Cut(uri[len(Scheme)+3:], "/")
	id, err := cid.Decode(rest)
	if err != nil {
		return cid.Undef, "", err
	}
	return id, path, nil
}

// Fingerprint digests content with sha256 and returns the hex digest,
// the file hash convention of the registry.
func Fingerprint(content []byte) string {
	sum, err := mh.Sum(content, mh.SHA2_256, -1)
	if err != nil {
		panic(err)
	}
	dec, err := mh.Decode(sum)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(dec.Digest)
}

// CheckPair audits the structure of a metadata pair: the URI must
// parse and the hash must be a sha256 hex digest. Only the
// registration surface runs this, and only in strict mode.
func CheckPair(m work.Metadata) error {
	_, _, err := ParseURI(m.URI)
	if err != nil {
		return err
	}
	buf, err := hex.DecodeString(m.FileHash)
	if err != nil || len(buf) != 32 {
		return fmt.Errorf("%w %s", ErrDigest, m.FileHash)
	}
	return nil
}
