package util

const DateFormat = "2006-01-02"

const (
	StorageNone  = "none"
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeText = "text/plain; charset=utf-8"
)
