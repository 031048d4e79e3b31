package db

// Page applies limit and offset to an ordered result. A non-positive limit
// returns everything after offset.
func Page[T any](docs []T, limit int, offset int64) []T {
	offset = max(offset, 0)
	if offset >= int64(len(docs)) {
		return nil
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}
