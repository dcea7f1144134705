package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage = "image/"
)

var AllowedAvatarExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// Avatar uploads beyond this size are rejected.
const MaxAvatarSize = 5 << 20
